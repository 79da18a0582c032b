package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"adcontext/internal/domain"
)

// corpusRepository stores corpus items in Postgres with a pgvector embedding
// column. Items of one revision share a revision number; the ordinal column
// preserves insertion order so a reloaded index keeps its tie-break behavior.
type corpusRepository struct {
	pool *pgxpool.Pool
}

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(pool *pgxpool.Pool) domain.CorpusRepository {
	return &corpusRepository{pool: pool}
}

type dbExecutor interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *corpusRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *corpusRepository) BulkInsertItems(ctx context.Context, revision int64, items []domain.CorpusItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(items))
	for i, item := range items {
		metadata, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", item.ID, err)
		}
		rows[i] = []interface{}{
			item.ID,
			revision,
			i,
			item.Text,
			pgvector.NewVector(item.Vector),
			metadata,
			item.CreatedAt,
		}
	}

	_, err := r.getExecutor(ctx).CopyFrom(
		ctx,
		pgx.Identifier{"corpus_items"},
		[]string{"id", "revision", "ordinal", "content", "embedding", "metadata", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert corpus items: %w", err)
	}

	return nil
}

func (r *corpusRepository) LoadRevision(ctx context.Context, revision int64) ([]domain.CorpusItem, error) {
	query := `
		SELECT id, content, embedding, metadata, created_at
		FROM corpus_items
		WHERE revision = $1
		ORDER BY ordinal ASC
	`
	rows, err := r.getExecutor(ctx).Query(ctx, query, revision)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus items: %w", err)
	}
	defer rows.Close()

	var items []domain.CorpusItem
	for rows.Next() {
		var item domain.CorpusItem
		var embedding pgvector.Vector
		var metadata []byte
		if err := rows.Scan(&item.ID, &item.Text, &embedding, &metadata, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan corpus item: %w", err)
		}
		item.Vector = embedding.Slice()
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func (r *corpusRepository) LatestRevision(ctx context.Context) (int64, error) {
	var revision int64
	query := `SELECT COALESCE(MAX(revision), 0) FROM corpus_items`
	if err := r.getExecutor(ctx).QueryRow(ctx, query).Scan(&revision); err != nil {
		return 0, fmt.Errorf("failed to query latest revision: %w", err)
	}
	return revision, nil
}

func (r *corpusRepository) DeleteRevisionsBefore(ctx context.Context, revision int64) error {
	query := `DELETE FROM corpus_items WHERE revision < $1`
	if _, err := r.getExecutor(ctx).Exec(ctx, query, revision); err != nil {
		return fmt.Errorf("failed to delete superseded revisions: %w", err)
	}
	return nil
}
