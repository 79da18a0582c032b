package domain

import (
	"context"
)

// Embedder defines the interface for generating embeddings.
// Implementations must return unit-L2-normalized vectors of a fixed
// dimensionality and be deterministic for a fixed model. Inputs longer than
// the model window are truncated, not rejected.
type Embedder interface {
	// Embed returns the embedding for a single text. Empty or whitespace-only
	// input fails with *EmbeddingError.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds texts in order. One call per ingestion batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the vector size produced by the model.
	Dimension() int
	// Version identifies the model for snapshot compatibility checks.
	Version() string
}
