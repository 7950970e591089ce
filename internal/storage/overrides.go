package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/model"
)

// SaveOverride persists a human review override. A record has at most one
// override; a second review replaces the first. Overrides are never written
// by the matcher, only by the review workflow.
func (s *SQLiteStorage) SaveOverride(ctx context.Context, override *model.ReviewedOverride) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if override == nil {
		return fmt.Errorf("%w: override", ErrNilParameter)
	}
	if err := override.Validate(); err != nil {
		return err
	}

	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	if override.ReviewedAt.IsZero() {
		override.ReviewedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_overrides (
			id, record_type, record_id, matched_id, status,
			reviewer_id, reviewed_at, override_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(record_type, record_id) DO UPDATE SET
			id = excluded.id,
			matched_id = excluded.matched_id,
			status = excluded.status,
			reviewer_id = excluded.reviewer_id,
			reviewed_at = excluded.reviewed_at,
			override_reason = excluded.override_reason
	`,
		override.ID, string(override.RecordType), override.RecordID,
		override.MatchedID, string(override.Status), override.ReviewerID,
		override.ReviewedAt, override.OverrideReason,
	)
	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}

	return nil
}

// GetOverride loads the override for one record, or common.ErrNotFound.
func (s *SQLiteStorage) GetOverride(ctx context.Context, recordType model.RecordType, recordID string) (*model.ReviewedOverride, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(recordID, "recordID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, record_type, record_id, matched_id, status,
		       reviewer_id, reviewed_at, override_reason
		FROM review_overrides
		WHERE record_type = ? AND record_id = ?
	`, string(recordType), recordID)

	override, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("override for %s %s: %w", recordType, recordID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return override, nil
}

// ListOverrides loads every override of a record type keyed by record id.
// The batch engine uses this to skip human-terminal records in one query.
func (s *SQLiteStorage) ListOverrides(ctx context.Context, recordType model.RecordType) (map[string]*model.ReviewedOverride, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, record_id, matched_id, status,
		       reviewer_id, reviewed_at, override_reason
		FROM review_overrides
		WHERE record_type = ?
		ORDER BY record_id
	`, string(recordType))
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	overrides := make(map[string]*model.ReviewedOverride)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides[override.RecordID] = override
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}

	return overrides, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOverride(row scanner) (*model.ReviewedOverride, error) {
	var o model.ReviewedOverride
	var recordType, status string
	if err := row.Scan(
		&o.ID, &recordType, &o.RecordID, &o.MatchedID, &status,
		&o.ReviewerID, &o.ReviewedAt, &o.OverrideReason,
	); err != nil {
		return nil, err
	}
	o.RecordType = model.RecordType(recordType)
	o.Status = model.ReviewStatus(status)
	return &o, nil
}
