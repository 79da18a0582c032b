package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adcontext/internal/domain"
)

func kw(phrases ...string) []domain.Keyword {
	out := make([]domain.Keyword, 0, len(phrases))
	for i, p := range phrases {
		out = append(out, domain.Keyword{Phrase: p, Score: float64(len(phrases) - i)})
	}
	return out
}

func TestRationaleBuilder_Build(t *testing.T) {
	b := NewRationaleBuilder()

	t.Run("names shared themes first", func(t *testing.T) {
		got := b.Build(
			kw("interest rates", "mortgage offers"),
			kw("interest rates", "bond yields"),
			nil,
		)

		assert.Equal(t, "Shares themes with the landing page: interest rates.", got)
	})

	t.Run("falls back to the item's own themes", func(t *testing.T) {
		got := b.Build(
			kw("vacation rentals"),
			kw("bond yields", "rate cuts"),
			nil,
		)

		assert.Equal(t, "Covers related themes: bond yields, rate cuts.", got)
	})

	t.Run("generic rationale when no keywords exist", func(t *testing.T) {
		got := b.Build(nil, nil, nil)

		assert.Equal(t, "Semantically similar to the landing page content.", got)
	})

	t.Run("appends the source from metadata", func(t *testing.T) {
		got := b.Build(nil, nil, map[string]string{"source": "Bloomberg"})

		assert.Equal(t, "Semantically similar to the landing page content. Source: Bloomberg.", got)
	})

	t.Run("ignores empty source metadata", func(t *testing.T) {
		got := b.Build(nil, nil, map[string]string{"source": ""})

		assert.NotContains(t, got, "Source:")
	})
}
