package usecase

import (
	"adcontext/internal/domain"
)

// RankingConfig holds tunable parameters for relevance ranking.
type RankingConfig struct {
	// TopK is the number of results returned to the caller.
	TopK int

	// MinScore is the relevance floor: candidates scoring strictly below it
	// are dropped. Useful range observed in this domain is 0.1 to 0.5, but
	// the ranker treats it as opaque.
	MinScore float32

	// OverfetchFactor controls how many candidates are fetched from the
	// index before filtering: TopK * OverfetchFactor. Minimum 2, so that
	// post-filtering does not require a second query.
	OverfetchFactor int

	// MaxKeywords bounds the keyword extraction used for rationales and
	// query enrichment.
	MaxKeywords int

	// EnrichQuery prepends the document's extracted themes to the embedded
	// query text. Enabled by default; never changes scoring semantics.
	EnrichQuery bool
}

// DefaultRankingConfig returns the defaults used by the service.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		TopK:            5,
		MinScore:        0.2,
		OverfetchFactor: 2,
		MaxKeywords:     5,
		EnrichQuery:     true,
	}
}

// Validate checks the configuration before any work is performed.
func (c RankingConfig) Validate() error {
	if c.TopK <= 0 {
		return &domain.InvalidConfigurationError{Field: "top_k", Reason: "must be positive"}
	}
	if c.MinScore < -1 || c.MinScore > 1 {
		return &domain.InvalidConfigurationError{Field: "min_score", Reason: "must be within [-1, 1]"}
	}
	if c.OverfetchFactor < 2 {
		return &domain.InvalidConfigurationError{Field: "overfetch_factor", Reason: "must be at least 2"}
	}
	if c.MaxKeywords < 0 {
		return &domain.InvalidConfigurationError{Field: "max_keywords", Reason: "must be non-negative"}
	}
	return nil
}
