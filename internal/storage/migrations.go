package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Reference catalogs and token index",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS reference_vehicles (
					vehicle_config_id INTEGER PRIMARY KEY,
					make_id INTEGER NOT NULL,
					make_name TEXT NOT NULL,
					model_id INTEGER NOT NULL,
					model_name TEXT NOT NULL,
					year INTEGER NOT NULL,
					submodel TEXT NOT NULL DEFAULT '',
					engine_descriptor TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE INDEX idx_reference_vehicles_year ON reference_vehicles(year)`,

				`CREATE TABLE IF NOT EXISTS reference_parts (
					part_terminology_id INTEGER PRIMARY KEY,
					part_name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					category_primary TEXT,
					category_sub TEXT,
					category_confidence REAL
				)`,

				`CREATE TABLE IF NOT EXISTS part_aliases (
					part_terminology_id INTEGER NOT NULL,
					alias TEXT NOT NULL,
					PRIMARY KEY (part_terminology_id, alias),
					FOREIGN KEY (part_terminology_id) REFERENCES reference_parts(part_terminology_id)
				)`,

				`CREATE TABLE IF NOT EXISTS part_relations (
					part_terminology_id INTEGER NOT NULL,
					related_id INTEGER NOT NULL,
					relation TEXT NOT NULL CHECK (relation IN ('related', 'superseded_by', 'supersedes')),
					PRIMARY KEY (part_terminology_id, related_id, relation)
				)`,

				`CREATE TABLE IF NOT EXISTS part_tokens (
					token TEXT NOT NULL,
					part_terminology_id INTEGER NOT NULL,
					PRIMARY KEY (token, part_terminology_id)
				)`,
				`CREATE INDEX idx_part_tokens_token ON part_tokens(token)`,
			}

			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 1 failed: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Review overrides",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS review_overrides (
					id TEXT NOT NULL,
					record_type TEXT NOT NULL CHECK (record_type IN ('vehicle', 'part')),
					record_id TEXT NOT NULL,
					matched_id INTEGER NOT NULL DEFAULT 0,
					status TEXT NOT NULL CHECK (status IN ('validated', 'legacy')),
					reviewer_id TEXT NOT NULL,
					reviewed_at DATETIME NOT NULL,
					override_reason TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (record_type, record_id)
				)`,
				`CREATE INDEX idx_review_overrides_reviewer ON review_overrides(reviewer_id)`,
			}

			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 2 failed: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return err
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
