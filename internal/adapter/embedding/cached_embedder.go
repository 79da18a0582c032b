package embedding

import (
	"context"
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"

	"adcontext/internal/domain"
)

// CachedEmbedder wraps an Embedder with an LRU cache keyed by the content
// hash of the input text. Ranking embeds the same landing page repeatedly
// during a campaign run, so hits are common.
type CachedEmbedder struct {
	inner domain.Embedder
	cache *lru.Cache[[32]byte, []float32]
}

// NewCachedEmbedder creates a CachedEmbedder holding up to size entries.
func NewCachedEmbedder(inner domain.Embedder, size int) (*CachedEmbedder, error) {
	cache, err := lru.New[[32]byte, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

var _ domain.Embedder = (*CachedEmbedder)(nil)

// Embed returns the cached vector when present, otherwise delegates.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(text))
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// EmbedBatch delegates batches directly; ingestion texts rarely repeat.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedBatch(ctx, texts)
}

// Dimension reports the wrapped embedder's dimensionality.
func (c *CachedEmbedder) Dimension() int { return c.inner.Dimension() }

// Version identifies the wrapped model.
func (c *CachedEmbedder) Version() string { return c.inner.Version() }
