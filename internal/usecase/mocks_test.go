package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adcontext/internal/domain"
)

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if v := args.Get(0); v != nil {
		return v.([][]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEmbedder) Dimension() int {
	return m.Called().Int(0)
}

func (m *mockEmbedder) Version() string {
	return m.Called().String(0)
}

type mockCorpusRepository struct {
	mock.Mock
}

func (m *mockCorpusRepository) BulkInsertItems(ctx context.Context, revision int64, items []domain.CorpusItem) error {
	return m.Called(ctx, revision, items).Error(0)
}

func (m *mockCorpusRepository) LoadRevision(ctx context.Context, revision int64) ([]domain.CorpusItem, error) {
	args := m.Called(ctx, revision)
	if v := args.Get(0); v != nil {
		return v.([]domain.CorpusItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCorpusRepository) LatestRevision(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCorpusRepository) DeleteRevisionsBefore(ctx context.Context, revision int64) error {
	return m.Called(ctx, revision).Error(0)
}

// mockTransactionManager runs the function directly; transactional behavior
// is covered by the repository integration tests.
type mockTransactionManager struct {
	mock.Mock
}

func (m *mockTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type mockCorpusStore struct {
	mock.Mock
}

func (m *mockCorpusStore) Save(index *domain.VectorIndex) (string, error) {
	args := m.Called(index)
	return args.String(0), args.Error(1)
}

func (m *mockCorpusStore) Load(handle string) (*domain.VectorIndex, error) {
	args := m.Called(handle)
	if v := args.Get(0); v != nil {
		return v.(*domain.VectorIndex), args.Error(1)
	}
	return nil, args.Error(1)
}
