package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adcontext/internal/domain"
)

func TestRankingConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultRankingConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*RankingConfig)
		field  string
	}{
		{"zero top-k", func(c *RankingConfig) { c.TopK = 0 }, "top_k"},
		{"negative top-k", func(c *RankingConfig) { c.TopK = -3 }, "top_k"},
		{"min-score above cosine range", func(c *RankingConfig) { c.MinScore = 1.01 }, "min_score"},
		{"min-score below cosine range", func(c *RankingConfig) { c.MinScore = -1.01 }, "min_score"},
		{"overfetch factor below two", func(c *RankingConfig) { c.OverfetchFactor = 1 }, "overfetch_factor"},
		{"negative max keywords", func(c *RankingConfig) { c.MaxKeywords = -1 }, "max_keywords"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRankingConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			var cfgErr *domain.InvalidConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	t.Run("boundary min-scores are valid", func(t *testing.T) {
		cfg := DefaultRankingConfig()
		cfg.MinScore = -1
		assert.NoError(t, cfg.Validate())
		cfg.MinScore = 1
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero max keywords disables extraction but is valid", func(t *testing.T) {
		cfg := DefaultRankingConfig()
		cfg.MaxKeywords = 0
		assert.NoError(t, cfg.Validate())
	})
}
