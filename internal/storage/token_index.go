package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// RebuildPartTokenIndex derives searchable tokens for every part and
// replaces the token table. Run after each catalog import.
func (s *SQLiteStorage) RebuildPartTokenIndex(ctx context.Context, parts []model.ReferencePart) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM part_tokens`); err != nil {
		return fmt.Errorf("failed to clear part tokens: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO part_tokens (token, part_terminology_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, part := range parts {
		texts := append([]string{part.PartName, part.Description}, part.Aliases...)
		for _, token := range refdata.Tokenize(texts...) {
			if _, err := stmt.ExecContext(ctx, token, part.PartTerminologyID); err != nil {
				return fmt.Errorf("failed to insert token for part %d: %w", part.PartTerminologyID, err)
			}
		}
	}

	return tx.Commit()
}

// PartCandidates returns parts sharing at least one query token, ranked by
// hit count then part id. Ranking goes through refdata.RankHits so this
// backend stays decision-equivalent with the in-memory source.
func (s *SQLiteStorage) PartCandidates(ctx context.Context, tokens []string, limit int) ([]refdata.PartHit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(tokens))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT part_terminology_id, COUNT(*)
		FROM part_tokens
		WHERE token IN (`+placeholders+`)
		GROUP BY part_terminology_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query part candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits := make(map[int64]int)
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan part candidate: %w", err)
		}
		hits[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read part candidates: %w", err)
	}

	return refdata.RankHits(hits, limit), nil
}

// sqliteSource adapts PartCandidates to the refdata.CandidateSource
// interface.
type sqliteSource struct {
	storage *SQLiteStorage
}

// Ensure sqliteSource implements CandidateSource.
var _ refdata.CandidateSource = (*sqliteSource)(nil)

func (src *sqliteSource) Candidates(ctx context.Context, tokens []string, limit int) ([]refdata.PartHit, error) {
	return src.storage.PartCandidates(ctx, tokens, limit)
}

// CandidateSource returns the SQLite-backed keyword recall source.
func (s *SQLiteStorage) CandidateSource() refdata.CandidateSource {
	return &sqliteSource{storage: s}
}

// HasPartTokenIndex reports whether a populated token index is available.
func (s *SQLiteStorage) HasPartTokenIndex(ctx context.Context) (bool, error) {
	exists, err := s.tableExists(ctx, "part_tokens")
	if err != nil || !exists {
		return false, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM part_tokens`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count part tokens: %w", err)
	}
	return count > 0, nil
}
