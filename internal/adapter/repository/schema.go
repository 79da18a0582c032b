package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the corpus table if it does not exist. The embedding
// column dimension is fixed per deployment by the configured embedding model.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, dimension int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS corpus_items (
			id         TEXT        NOT NULL,
			revision   BIGINT      NOT NULL,
			ordinal    INTEGER     NOT NULL,
			content    TEXT        NOT NULL,
			embedding  vector(%d)  NOT NULL,
			metadata   JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (revision, id)
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS corpus_items_revision_ordinal_idx
			ON corpus_items (revision, ordinal)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
