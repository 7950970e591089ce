package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/model"
)

// SaveReferenceVehicles imports a VCdb extract, replacing any prior import.
func (s *SQLiteStorage) SaveReferenceVehicles(ctx context.Context, rows []model.ReferenceVehicle) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReferenceVehicles(rows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_vehicles`); err != nil {
		return fmt.Errorf("failed to clear reference vehicles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reference_vehicles (
			vehicle_config_id, make_id, make_name, model_id, model_name,
			year, submodel, engine_descriptor
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(vehicle_config_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare vehicle insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.VehicleConfigID, row.MakeID, row.MakeName, row.ModelID,
			row.ModelName, row.Year, row.Submodel, row.EngineDescriptor,
		); err != nil {
			return fmt.Errorf("failed to insert vehicle config %d: %w", row.VehicleConfigID, err)
		}
	}

	return tx.Commit()
}

// GetReferenceVehicles loads the VCdb extract. An absent table is a
// MissingReferenceDataError, not an empty result.
func (s *SQLiteStorage) GetReferenceVehicles(ctx context.Context) ([]model.ReferenceVehicle, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	exists, err := s.tableExists(ctx, "reference_vehicles")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &common.MissingReferenceDataError{Table: "reference_vehicles"}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT vehicle_config_id, make_id, make_name, model_id, model_name,
		       year, submodel, engine_descriptor
		FROM reference_vehicles
		ORDER BY vehicle_config_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference vehicles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vehicles []model.ReferenceVehicle
	for rows.Next() {
		var v model.ReferenceVehicle
		if err := rows.Scan(
			&v.VehicleConfigID, &v.MakeID, &v.MakeName, &v.ModelID,
			&v.ModelName, &v.Year, &v.Submodel, &v.EngineDescriptor,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reference vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference vehicles: %w", err)
	}

	return vehicles, nil
}

// SaveReferenceParts imports a PCdb extract with aliases and relations,
// replacing any prior import.
func (s *SQLiteStorage) SaveReferenceParts(ctx context.Context, rows []model.ReferencePart) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReferenceParts(rows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"part_relations", "part_aliases", "reference_parts"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, row := range rows {
		var primary, sub any
		var confidence any
		if row.Category != nil {
			primary, sub, confidence = row.Category.Primary, row.Category.Sub, row.Category.Confidence
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reference_parts (
				part_terminology_id, part_name, description,
				category_primary, category_sub, category_confidence
			) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(part_terminology_id) DO NOTHING
		`, row.PartTerminologyID, row.PartName, row.Description, primary, sub, confidence); err != nil {
			return fmt.Errorf("failed to insert part %d: %w", row.PartTerminologyID, err)
		}

		for _, alias := range row.Aliases {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO part_aliases (part_terminology_id, alias) VALUES (?, ?)
				ON CONFLICT DO NOTHING
			`, row.PartTerminologyID, alias); err != nil {
				return fmt.Errorf("failed to insert alias for part %d: %w", row.PartTerminologyID, err)
			}
		}

		relations := map[string][]int64{
			"related":       row.RelatedPartIDs,
			"superseded_by": row.SupersededByIDs,
			"supersedes":    row.SupersedesIDs,
		}
		for relation, ids := range relations {
			for _, id := range ids {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO part_relations (part_terminology_id, related_id, relation)
					VALUES (?, ?, ?)
					ON CONFLICT DO NOTHING
				`, row.PartTerminologyID, id, relation); err != nil {
					return fmt.Errorf("failed to insert relation for part %d: %w", row.PartTerminologyID, err)
				}
			}
		}
	}

	return tx.Commit()
}

// GetReferenceParts loads the PCdb extract with aliases and relations
// aggregated per part id. An absent table is a MissingReferenceDataError.
func (s *SQLiteStorage) GetReferenceParts(ctx context.Context) ([]model.ReferencePart, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	exists, err := s.tableExists(ctx, "reference_parts")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &common.MissingReferenceDataError{Table: "reference_parts"}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT part_terminology_id, part_name, description,
		       category_primary, category_sub, category_confidence
		FROM reference_parts
		ORDER BY part_terminology_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference parts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]*model.ReferencePart)
	var order []int64
	for rows.Next() {
		var p model.ReferencePart
		var primary, sub sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(
			&p.PartTerminologyID, &p.PartName, &p.Description,
			&primary, &sub, &confidence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reference part: %w", err)
		}
		if primary.Valid {
			p.Category = &model.PartCategory{
				Primary:    primary.String,
				Sub:        sub.String,
				Confidence: confidence.Float64,
			}
		}
		byID[p.PartTerminologyID] = &p
		order = append(order, p.PartTerminologyID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference parts: %w", err)
	}

	if err := s.loadPartAliases(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.loadPartRelations(ctx, byID); err != nil {
		return nil, err
	}

	parts := make([]model.ReferencePart, 0, len(order))
	for _, id := range order {
		parts = append(parts, *byID[id])
	}
	return parts, nil
}

func (s *SQLiteStorage) loadPartAliases(ctx context.Context, byID map[int64]*model.ReferencePart) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT part_terminology_id, alias FROM part_aliases ORDER BY part_terminology_id, alias
	`)
	if err != nil {
		return fmt.Errorf("failed to query part aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		var alias string
		if err := rows.Scan(&id, &alias); err != nil {
			return fmt.Errorf("failed to scan part alias: %w", err)
		}
		if p, ok := byID[id]; ok {
			p.Aliases = append(p.Aliases, alias)
		}
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadPartRelations(ctx context.Context, byID map[int64]*model.ReferencePart) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT part_terminology_id, related_id, relation
		FROM part_relations ORDER BY part_terminology_id, related_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query part relations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, related int64
		var relation string
		if err := rows.Scan(&id, &related, &relation); err != nil {
			return fmt.Errorf("failed to scan part relation: %w", err)
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		switch relation {
		case "related":
			p.RelatedPartIDs = append(p.RelatedPartIDs, related)
		case "superseded_by":
			p.SupersededByIDs = append(p.SupersededByIDs, related)
		case "supersedes":
			p.SupersedesIDs = append(p.SupersedesIDs, related)
		}
	}
	return rows.Err()
}
