package postgres

import (
	"context"
	"fmt"

	"emoscan/internal/registry"

	"github.com/pgvector/pgvector-go"
)

// IdentityStore is the PostgreSQL implementation of registry.Store.
// Embeddings are stored as a typed pgvector column, so malformed entries
// cannot be written in the first place; wrong-dimension rows from older
// schema versions are still skipped by registry.Load.
type IdentityStore struct {
	pool *Pool
}

// NewIdentityStore creates a new PostgreSQL identity store.
func NewIdentityStore(pool *Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

// Scan returns all identity records in insertion order.
func (s *IdentityStore) Scan(ctx context.Context) ([]registry.RawIdentity, error) {
	query := `
		SELECT id, label, embedding, created_at
		FROM identities
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var records []registry.RawIdentity
	for rows.Next() {
		var rec registry.RawIdentity
		var emb pgvector.Vector
		if err := rows.Scan(&rec.ID, &rec.Label, &emb, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity row: %w", err)
		}
		rec.Embedding = emb.Slice()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating identity rows: %w", err)
	}

	return records, nil
}

// Add stores a new identity record.
func (s *IdentityStore) Add(ctx context.Context, label string, embedding []float32) error {
	query := `INSERT INTO identities (label, embedding) VALUES ($1, $2)`

	if _, err := s.pool.Exec(ctx, query, label, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("insert identity %q: %w", label, err)
	}
	return nil
}

// Remove deletes all records for a label. Returns the number removed.
func (s *IdentityStore) Remove(ctx context.Context, label string) (int, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM identities WHERE label = $1`, label)
	if err != nil {
		return 0, fmt.Errorf("delete identity %q: %w", label, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// Count returns the total number of stored identities.
func (s *IdentityStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}

// HasLabel checks whether any record exists for a normalized label.
// The SQL side only lowercases and replaces dashes; diacritics stripping
// happens in registry.NormalizeLabel, so callers must enroll and look up
// through normalized labels. Both the CLI and the web enroll path do.
func (s *IdentityStore) HasLabel(ctx context.Context, label string) (bool, error) {
	normalized := registry.NormalizeLabel(label)

	var exists bool
	query := `SELECT EXISTS(
		SELECT 1 FROM identities
		WHERE LOWER(REPLACE(label, '-', ' ')) = $1
	)`
	if err := s.pool.QueryRow(ctx, query, normalized).Scan(&exists); err != nil {
		return false, fmt.Errorf("check identity exists: %w", err)
	}
	return exists, nil
}
