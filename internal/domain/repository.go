package domain

import (
	"context"
)

// CorpusRepository defines durable storage for corpus items. Insertion order
// is preserved through the ordinal column so that a reloaded index keeps the
// tie-break behavior of the original one.
type CorpusRepository interface {
	// BulkInsertItems inserts items under the given revision, in order.
	BulkInsertItems(ctx context.Context, revision int64, items []CorpusItem) error

	// LoadRevision retrieves all items of a revision ordered by ordinal.
	LoadRevision(ctx context.Context, revision int64) ([]CorpusItem, error)

	// LatestRevision returns the highest ingested revision, 0 when empty.
	LatestRevision(ctx context.Context) (int64, error)

	// DeleteRevisionsBefore drops superseded revisions.
	DeleteRevisionsBefore(ctx context.Context, revision int64) error
}

// CorpusStore persists an index snapshot as a pair of co-owned artifacts:
// the vector artifact and the metadata artifact. Both must be present and
// aligned for a load to succeed; anything else is a *CorpusLoadError.
type CorpusStore interface {
	// Save writes a snapshot and returns its handle (a base path).
	Save(index *VectorIndex) (string, error)

	// Load rebuilds an index from the snapshot at the handle.
	Load(handle string) (*VectorIndex, error)
}

// TransactionManager defines the interface for handling database transactions.
type TransactionManager interface {
	// RunInTx executes the given function within a transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IndexProvider hands out the currently served read-only index. The rebuild
// worker swaps in a replacement atomically; rank calls in flight keep the
// index value they already obtained.
type IndexProvider interface {
	Current() *VectorIndex
	Swap(index *VectorIndex, revision int64)
	Revision() int64
}
