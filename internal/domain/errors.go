package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when an item with an already-indexed ID is added.
// Duplicate IDs are rejected at Add time rather than silently shadowed.
var ErrDuplicateID = errors.New("duplicate corpus item id")

// EmbeddingError indicates the embedding model rejected the input or was
// unreachable. It is not retried here; retry policy belongs to the caller.
type EmbeddingError struct {
	Reason string
	Err    error
}

func (e *EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("embedding failed: %s", e.Reason)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// DimensionMismatchError indicates a vector whose dimensionality differs from
// the one established by the corpus.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// CorpusLoadError indicates persisted corpus state is unreadable or the two
// snapshot artifacts are inconsistent with each other. Fatal to the loading
// pipeline stage.
type CorpusLoadError struct {
	Reason string
	Err    error
}

func (e *CorpusLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corpus load failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corpus load failed: %s", e.Reason)
}

func (e *CorpusLoadError) Unwrap() error { return e.Err }

// InvalidConfigurationError indicates caller misuse of a tunable, detected
// before any work is performed.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
