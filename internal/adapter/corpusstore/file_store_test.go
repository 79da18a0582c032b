package corpusstore

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adcontext/internal/domain"
)

func sampleIndex(t *testing.T) *domain.VectorIndex {
	t.Helper()
	idx := domain.NewVectorIndex()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, idx.AddBatch([]domain.CorpusItem{
		{ID: "n-1", Text: "tech stocks rally", Vector: []float32{1, 0}, Metadata: map[string]string{"source": "Reuters"}, CreatedAt: now},
		{ID: "n-2", Text: "bond yields rise", Vector: []float32{0, 1}, CreatedAt: now},
		{ID: "n-3", Text: "oil prices steady", Vector: []float32{0.6, 0.8}, CreatedAt: now},
	}))
	return idx
}

func TestFileStore_SaveLoad(t *testing.T) {
	t.Run("round trip preserves items, order and search behavior", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "corpus")
		original := sampleIndex(t)

		handle, err := store.Save(original)
		require.NoError(t, err)
		assert.Equal(t, store.Handle(), handle)
		assert.True(t, store.Exists(handle))

		loaded, err := store.Load(handle)
		require.NoError(t, err)

		assert.Equal(t, original.Size(), loaded.Size())
		assert.Equal(t, original.Dimension(), loaded.Dimension())
		assert.Equal(t, original.Items(), loaded.Items())

		query := []float32{1, 0}
		wantHits, err := original.Search(query, 3)
		require.NoError(t, err)
		gotHits, err := loaded.Search(query, 3)
		require.NoError(t, err)
		require.Len(t, gotHits, len(wantHits))
		for i := range wantHits {
			assert.Equal(t, wantHits[i].Item.ID, gotHits[i].Item.ID)
			assert.Equal(t, wantHits[i].Score, gotHits[i].Score)
		}
	})

	t.Run("empty index round trips", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "corpus")

		handle, err := store.Save(domain.NewVectorIndex())
		require.NoError(t, err)

		loaded, err := store.Load(handle)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Size())
	})

	t.Run("save overwrites the previous snapshot", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "corpus")
		_, err := store.Save(sampleIndex(t))
		require.NoError(t, err)

		smaller := domain.NewVectorIndex()
		require.NoError(t, smaller.Add(domain.CorpusItem{ID: "only", Text: "one item", Vector: []float32{1, 0}}))
		handle, err := store.Save(smaller)
		require.NoError(t, err)

		loaded, err := store.Load(handle)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Size())
	})
}

func TestFileStore_LoadFailures(t *testing.T) {
	saveValid := func(t *testing.T) (*FileStore, string) {
		t.Helper()
		store := NewFileStore(t.TempDir(), "corpus")
		handle, err := store.Save(sampleIndex(t))
		require.NoError(t, err)
		return store, handle
	}

	assertLoadError := func(t *testing.T, store *FileStore, handle string) *domain.CorpusLoadError {
		t.Helper()
		_, err := store.Load(handle)
		var loadErr *domain.CorpusLoadError
		require.ErrorAs(t, err, &loadErr)
		return loadErr
	}

	t.Run("missing snapshot", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "corpus")

		assert.False(t, store.Exists(store.Handle()))
		assertLoadError(t, store, store.Handle())
	})

	t.Run("missing metadata artifact", func(t *testing.T) {
		store, handle := saveValid(t)
		require.NoError(t, os.Remove(handle+metadataSuffix))

		assert.False(t, store.Exists(handle))
		assertLoadError(t, store, handle)
	})

	t.Run("missing vector artifact", func(t *testing.T) {
		store, handle := saveValid(t)
		require.NoError(t, os.Remove(handle+vectorSuffix))

		assertLoadError(t, store, handle)
	})

	t.Run("corrupt vector artifact", func(t *testing.T) {
		store, handle := saveValid(t)
		require.NoError(t, os.WriteFile(handle+vectorSuffix, []byte("{not json"), 0o644))

		assertLoadError(t, store, handle)
	})

	t.Run("version mismatch", func(t *testing.T) {
		store, handle := saveValid(t)
		rewriteVectors(t, handle, func(va *vectorArtifact) {
			va.Version = snapshotVersion + 1
		})

		loadErr := assertLoadError(t, store, handle)
		assert.Contains(t, loadErr.Reason, "version mismatch")
	})

	t.Run("artifacts of different lengths", func(t *testing.T) {
		store, handle := saveValid(t)
		rewriteVectors(t, handle, func(va *vectorArtifact) {
			va.IDs = va.IDs[:2]
			va.Vectors = va.Vectors[:2]
		})

		loadErr := assertLoadError(t, store, handle)
		assert.Contains(t, loadErr.Reason, "misaligned")
	})

	t.Run("ids out of alignment", func(t *testing.T) {
		store, handle := saveValid(t)
		rewriteVectors(t, handle, func(va *vectorArtifact) {
			va.IDs[0], va.IDs[1] = va.IDs[1], va.IDs[0]
		})

		loadErr := assertLoadError(t, store, handle)
		assert.Contains(t, loadErr.Reason, "misaligned")
	})

	t.Run("vector dimension disagrees with the declared one", func(t *testing.T) {
		store, handle := saveValid(t)
		rewriteVectors(t, handle, func(va *vectorArtifact) {
			va.Vectors[1] = []float32{1, 0, 0}
		})

		assertLoadError(t, store, handle)
	})
}

func TestFileStore_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "corpus")

	_, err := store.Save(sampleIndex(t))
	require.NoError(t, err)

	// No temp leftovers after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func rewriteVectors(t *testing.T, handle string, mutate func(*vectorArtifact)) {
	t.Helper()
	path := handle + vectorSuffix
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var va vectorArtifact
	require.NoError(t, json.Unmarshal(data, &va))
	mutate(&va)
	out, err := json.Marshal(va)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, out, 0o644))
}
