package domain

import (
	"fmt"
	"sort"
)

// SearchHit is one similarity match returned by VectorIndex.Search.
type SearchHit struct {
	Item  *CorpusItem
	Score float32
}

// VectorIndex is an exact in-memory similarity index over unit-normalized
// vectors. Cosine similarity reduces to an inner product because every stored
// vector and every query vector is unit length.
//
// The index is built once and then served read-only: concurrent Search calls
// are safe, but Add/AddBatch must fully precede the query phase. A corpus
// change is handled by building a fresh index and swapping it wholesale.
type VectorIndex struct {
	dimension int
	items     []CorpusItem
	byID      map[string]int
}

// NewVectorIndex creates an empty index. The first added item fixes the
// dimensionality.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{byID: make(map[string]int)}
}

// Add appends one item. The item's vector must match the established
// dimensionality, its ID must be unused, and its text must be non-empty.
func (idx *VectorIndex) Add(item CorpusItem) error {
	if err := idx.validate(item, idx.dimension); err != nil {
		return err
	}
	idx.append(item)
	return nil
}

// AddBatch appends multiple items atomically: if any item is invalid the
// whole batch is rejected and the index is left unchanged.
func (idx *VectorIndex) AddBatch(items []CorpusItem) error {
	dim := idx.dimension
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := idx.validate(item, dim); err != nil {
			return fmt.Errorf("batch item %d (%s): %w", i, item.ID, err)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("batch item %d (%s): %w", i, item.ID, ErrDuplicateID)
		}
		seen[item.ID] = struct{}{}
		if dim == 0 {
			dim = len(item.Vector)
		}
	}
	for _, item := range items {
		idx.append(item)
	}
	return nil
}

// Search returns up to k hits ordered by descending cosine similarity.
// Exact score ties are broken by ascending insertion order. k larger than the
// corpus returns everything; an empty index returns an empty slice.
func (idx *VectorIndex) Search(query []float32, k int) ([]SearchHit, error) {
	if idx.Size() == 0 {
		return []SearchHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Want: idx.dimension, Got: len(query)}
	}
	if k <= 0 {
		return []SearchHit{}, nil
	}

	scores := make([]float32, len(idx.items))
	order := make([]int, len(idx.items))
	for i := range idx.items {
		scores[i] = dot(idx.items[i].Vector, query)
		order[i] = i
	}
	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]SearchHit, 0, k)
	for _, i := range order[:k] {
		hits = append(hits, SearchHit{Item: &idx.items[i], Score: scores[i]})
	}
	return hits, nil
}

// Get returns the item with the given id, or nil.
func (idx *VectorIndex) Get(id string) *CorpusItem {
	i, ok := idx.byID[id]
	if !ok {
		return nil
	}
	return &idx.items[i]
}

// Size returns the number of indexed items.
func (idx *VectorIndex) Size() int { return len(idx.items) }

// Dimension returns the established dimensionality, 0 while empty.
func (idx *VectorIndex) Dimension() int { return idx.dimension }

// Items returns the indexed items in insertion order. Callers must treat the
// slice as read-only; it backs the live index.
func (idx *VectorIndex) Items() []CorpusItem { return idx.items }

func (idx *VectorIndex) validate(item CorpusItem, dim int) error {
	if item.ID == "" {
		return fmt.Errorf("corpus item has empty id")
	}
	if item.Text == "" {
		return fmt.Errorf("corpus item %s has empty text", item.ID)
	}
	if len(item.Vector) == 0 {
		return &DimensionMismatchError{Want: dim, Got: 0}
	}
	if dim != 0 && len(item.Vector) != dim {
		return &DimensionMismatchError{Want: dim, Got: len(item.Vector)}
	}
	if _, exists := idx.byID[item.ID]; exists {
		return ErrDuplicateID
	}
	return nil
}

func (idx *VectorIndex) append(item CorpusItem) {
	if idx.dimension == 0 {
		idx.dimension = len(item.Vector)
	}
	idx.byID[item.ID] = len(idx.items)
	idx.items = append(idx.items, item)
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
