package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("embedding error unwraps its cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("failed to embed client document: %w",
			&EmbeddingError{Reason: "model unavailable", Err: cause})

		var embErr *EmbeddingError
		assert.ErrorAs(t, err, &embErr)
		assert.Equal(t, "model unavailable", embErr.Reason)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("dimension mismatch names both sizes", func(t *testing.T) {
		err := &DimensionMismatchError{Want: 384, Got: 768}

		assert.Contains(t, err.Error(), "384")
		assert.Contains(t, err.Error(), "768")
	})

	t.Run("corpus load error survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("startup: %w", &CorpusLoadError{Reason: "metadata artifact unreadable"})

		var loadErr *CorpusLoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("duplicate id sentinel survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("item n-1: %w", ErrDuplicateID)

		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("invalid configuration names the field", func(t *testing.T) {
		err := &InvalidConfigurationError{Field: "top_k", Reason: "must be positive"}

		assert.Contains(t, err.Error(), "top_k")
	})
}
