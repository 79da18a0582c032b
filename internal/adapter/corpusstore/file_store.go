// Package corpusstore persists index snapshots on disk as two co-owned
// artifacts: a vector file and a metadata file, aligned by insertion order.
// Loading one without its matching other is a corpus load failure.
package corpusstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"adcontext/internal/domain"
)

const snapshotVersion = 1

const (
	vectorSuffix   = ".vectors.json"
	metadataSuffix = ".meta.json"
)

// FileStore stores snapshots under a directory, one pair of artifacts per
// snapshot name.
type FileStore struct {
	dir  string
	name string
}

// NewFileStore creates a FileStore writing <dir>/<name>.vectors.json and
// <dir>/<name>.meta.json.
func NewFileStore(dir, name string) *FileStore {
	if name == "" {
		name = "corpus"
	}
	return &FileStore{dir: dir, name: name}
}

var _ domain.CorpusStore = (*FileStore)(nil)

type vectorArtifact struct {
	Version   int         `json:"version"`
	Dimension int         `json:"dimension"`
	IDs       []string    `json:"ids"`
	Vectors   [][]float32 `json:"vectors"`
}

type metadataArtifact struct {
	Version int            `json:"version"`
	Items   []metadataItem `json:"items"`
}

type metadataItem struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Save writes both artifacts atomically and returns the snapshot handle.
func (s *FileStore) Save(index *domain.VectorIndex) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	items := index.Items()
	va := vectorArtifact{
		Version:   snapshotVersion,
		Dimension: index.Dimension(),
		IDs:       make([]string, 0, len(items)),
		Vectors:   make([][]float32, 0, len(items)),
	}
	ma := metadataArtifact{
		Version: snapshotVersion,
		Items:   make([]metadataItem, 0, len(items)),
	}
	for _, item := range items {
		va.IDs = append(va.IDs, item.ID)
		va.Vectors = append(va.Vectors, item.Vector)
		ma.Items = append(ma.Items, metadataItem{
			ID:        item.ID,
			Text:      item.Text,
			Metadata:  item.Metadata,
			CreatedAt: item.CreatedAt,
		})
	}

	handle := filepath.Join(s.dir, s.name)
	if err := writeJSONAtomic(handle+vectorSuffix, va); err != nil {
		return "", fmt.Errorf("failed to write vector artifact: %w", err)
	}
	if err := writeJSONAtomic(handle+metadataSuffix, ma); err != nil {
		return "", fmt.Errorf("failed to write metadata artifact: %w", err)
	}
	return handle, nil
}

// Load rebuilds an index from the snapshot at the handle. Both artifacts
// must be present, parseable, and aligned.
func (s *FileStore) Load(handle string) (*domain.VectorIndex, error) {
	var va vectorArtifact
	if err := readJSON(handle+vectorSuffix, &va); err != nil {
		return nil, &domain.CorpusLoadError{Reason: "vector artifact unreadable", Err: err}
	}
	var ma metadataArtifact
	if err := readJSON(handle+metadataSuffix, &ma); err != nil {
		return nil, &domain.CorpusLoadError{Reason: "metadata artifact unreadable", Err: err}
	}

	if va.Version != snapshotVersion || ma.Version != snapshotVersion {
		return nil, &domain.CorpusLoadError{
			Reason: fmt.Sprintf("snapshot version mismatch: vectors v%d, metadata v%d", va.Version, ma.Version),
		}
	}
	if len(va.IDs) != len(va.Vectors) {
		return nil, &domain.CorpusLoadError{
			Reason: fmt.Sprintf("vector artifact inconsistent: %d ids, %d vectors", len(va.IDs), len(va.Vectors)),
		}
	}
	if len(va.IDs) != len(ma.Items) {
		return nil, &domain.CorpusLoadError{
			Reason: fmt.Sprintf("artifacts misaligned: %d vectors, %d metadata items", len(va.IDs), len(ma.Items)),
		}
	}

	items := make([]domain.CorpusItem, 0, len(va.IDs))
	for i, id := range va.IDs {
		if ma.Items[i].ID != id {
			return nil, &domain.CorpusLoadError{
				Reason: fmt.Sprintf("artifacts misaligned at position %d: vector id %s, metadata id %s", i, id, ma.Items[i].ID),
			}
		}
		if va.Dimension != 0 && len(va.Vectors[i]) != va.Dimension {
			return nil, &domain.CorpusLoadError{
				Reason: fmt.Sprintf("vector %s has dimension %d, snapshot declares %d", id, len(va.Vectors[i]), va.Dimension),
			}
		}
		items = append(items, domain.CorpusItem{
			ID:        id,
			Text:      ma.Items[i].Text,
			Vector:    va.Vectors[i],
			Metadata:  ma.Items[i].Metadata,
			CreatedAt: ma.Items[i].CreatedAt,
		})
	}

	index := domain.NewVectorIndex()
	if err := index.AddBatch(items); err != nil {
		return nil, &domain.CorpusLoadError{Reason: "snapshot content invalid", Err: err}
	}
	return index, nil
}

// Exists reports whether a complete snapshot is present at the handle.
func (s *FileStore) Exists(handle string) bool {
	for _, suffix := range []string{vectorSuffix, metadataSuffix} {
		if _, err := os.Stat(handle + suffix); err != nil {
			return false
		}
	}
	return true
}

// Handle returns the base path of this store's snapshot pair.
func (s *FileStore) Handle() string {
	return filepath.Join(s.dir, s.name)
}

// writeJSONAtomic writes via a temp file and rename so a crash never leaves
// a half-written artifact behind.
func writeJSONAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("artifact missing: %w", err)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}
