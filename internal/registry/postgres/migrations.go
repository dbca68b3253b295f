package postgres

import (
	"context"
	"fmt"

	"emoscan/internal/constants"
)

// migrations are applied in order. The vector extension must exist before
// the identities table referencing the vector type.
var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS identities (
		id         BIGSERIAL PRIMARY KEY,
		label      TEXT NOT NULL,
		embedding  vector(%d) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, constants.EmbeddingDim),
	`CREATE INDEX IF NOT EXISTS identities_label_idx ON identities (label)`,
}

// Migrate applies the schema migrations.
func (p *Pool) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
