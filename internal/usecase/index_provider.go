package usecase

import (
	"sync/atomic"

	"adcontext/internal/domain"
)

// AtomicIndexProvider serves an immutable index behind an atomic pointer.
// Rank calls read the current value; the rebuild worker swaps in a complete
// replacement in one store, so readers never observe a partially built index.
type AtomicIndexProvider struct {
	current  atomic.Pointer[domain.VectorIndex]
	revision atomic.Int64
}

// NewAtomicIndexProvider creates a provider serving the given index, which
// may be empty.
func NewAtomicIndexProvider(index *domain.VectorIndex, revision int64) *AtomicIndexProvider {
	p := &AtomicIndexProvider{}
	if index == nil {
		index = domain.NewVectorIndex()
	}
	p.current.Store(index)
	p.revision.Store(revision)
	return p
}

var _ domain.IndexProvider = (*AtomicIndexProvider)(nil)

// Current returns the index being served.
func (p *AtomicIndexProvider) Current() *domain.VectorIndex {
	return p.current.Load()
}

// Swap replaces the served index wholesale.
func (p *AtomicIndexProvider) Swap(index *domain.VectorIndex, revision int64) {
	p.current.Store(index)
	p.revision.Store(revision)
}

// Revision returns the corpus revision of the served index.
func (p *AtomicIndexProvider) Revision() int64 {
	return p.revision.Load()
}
