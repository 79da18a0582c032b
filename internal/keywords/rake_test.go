package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	e := NewExtractor()

	t.Run("stopwords and punctuation delimit phrases", func(t *testing.T) {
		got := e.Extract("the quick brown fox jumps over the lazy dog", 10)

		assert.Len(t, got, 2)
		assert.Equal(t, "quick brown fox jumps", got[0].Phrase)
		assert.Equal(t, "lazy dog", got[1].Phrase)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("co-occurring words raise phrase scores", func(t *testing.T) {
		text := "rate cuts lifted markets today. analysts expect further rate cuts."

		got := e.Extract(text, 1)

		assert.Len(t, got, 1)
		// "rate" and "cuts" each occur in two phrases, so their
		// degree/frequency score dominates the single-occurrence words.
		assert.Contains(t, got[0].Phrase, "rate cuts")
	})

	t.Run("score ties resolve by first occurrence", func(t *testing.T) {
		got := e.Extract("interest rates rise. interest rates fall.", 10)

		assert.Len(t, got, 2)
		assert.Equal(t, "interest rates rise", got[0].Phrase)
		assert.Equal(t, "interest rates fall", got[1].Phrase)
		assert.Equal(t, got[0].Score, got[1].Score)
	})

	t.Run("repeated phrases are reported once", func(t *testing.T) {
		got := e.Extract("bond yields, bond yields, bond yields", 10)

		assert.Len(t, got, 1)
		assert.Equal(t, "bond yields", got[0].Phrase)
	})

	t.Run("maxKeywords truncates the ranking", func(t *testing.T) {
		text := "central banks tightened policy. mortgage rates climbed. housing demand cooled."

		got := e.Extract(text, 2)

		assert.Len(t, got, 2)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		text := "tech stocks rallied after strong earnings, while energy shares slipped on weak oil demand"

		first := e.Extract(text, 5)
		second := e.Extract(text, 5)

		assert.Equal(t, first, second)
	})

	t.Run("stopword-only text yields nothing", func(t *testing.T) {
		assert.Empty(t, e.Extract("the of and to in a is it", 5))
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, e.Extract("", 5))
	})

	t.Run("non-positive limit yields nothing", func(t *testing.T) {
		assert.Empty(t, e.Extract("bond yields climbed", 0))
	})

	t.Run("hyphenated words stay intact", func(t *testing.T) {
		got := e.Extract("short-term yields spiked", 5)

		assert.Len(t, got, 1)
		assert.Equal(t, "short-term yields spiked", got[0].Phrase)
	})

	t.Run("numeric-only tokens delimit phrases", func(t *testing.T) {
		got := e.Extract("inflation hit 9 percent last quarter", 5)

		for _, kw := range got {
			assert.NotContains(t, kw.Phrase, "9")
		}
	})
}

func TestExtractWithCustomStopwords(t *testing.T) {
	e := NewExtractorWithStopwords([]string{"market", "the"})

	got := e.Extract("the market moved sharply", 5)

	assert.Len(t, got, 1)
	assert.Equal(t, "moved sharply", got[0].Phrase)
}
