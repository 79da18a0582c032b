package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"adcontext/internal/domain"
)

func TestAtomicIndexProvider_Swap(t *testing.T) {
	first := domain.NewVectorIndex()
	provider := NewAtomicIndexProvider(first, 1)

	assert.Same(t, first, provider.Current())
	assert.Equal(t, int64(1), provider.Revision())

	second := domain.NewVectorIndex()
	assert.NoError(t, second.Add(domain.CorpusItem{ID: "a", Text: "text", Vector: []float32{1, 0}}))
	provider.Swap(second, 2)

	assert.Same(t, second, provider.Current())
	assert.Equal(t, int64(2), provider.Revision())
}

func TestAtomicIndexProvider_ConcurrentAccess(t *testing.T) {
	provider := NewAtomicIndexProvider(domain.NewVectorIndex(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(rev int64) {
			defer wg.Done()
			provider.Swap(domain.NewVectorIndex(), rev)
		}(int64(i + 1))
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Readers always observe a complete index value.
			assert.NotNil(t, provider.Current())
		}()
	}
	wg.Wait()

	assert.NotNil(t, provider.Current())
	assert.Greater(t, provider.Revision(), int64(0))
}
