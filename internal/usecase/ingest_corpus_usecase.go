package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adcontext/internal/domain"
)

// IngestItem is one news snippet handed over by the acquisition pipeline,
// with a caller-assigned stable ID and cleaned UTF-8 text.
type IngestItem struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// IngestCorpusInput defines the input for IngestCorpus.
type IngestCorpusInput struct {
	Items []IngestItem
}

// IngestCorpusOutput summarizes a completed ingestion pass.
type IngestCorpusOutput struct {
	Revision     int64
	Count        int
	Dimension    int
	SnapshotPath string
}

// IngestCorpusUsecase builds a fresh corpus revision: embed every snippet,
// construct a new index, persist it, and swap it into serving. The corpus is
// append-only within a revision; any change means a wholesale rebuild.
type IngestCorpusUsecase interface {
	Execute(ctx context.Context, input IngestCorpusInput) (*IngestCorpusOutput, error)
}

type ingestCorpusUsecase struct {
	embedder    domain.Embedder
	repo        domain.CorpusRepository // optional
	txManager   domain.TransactionManager
	store       domain.CorpusStore // optional
	provider    domain.IndexProvider
	batchSize   int
	concurrency int
	logger      *slog.Logger
}

// NewIngestCorpusUsecase creates a new IngestCorpusUsecase. repo (with
// txManager) and store are optional persistence boundaries; either may be nil
// for an in-memory-only build.
func NewIngestCorpusUsecase(
	embedder domain.Embedder,
	repo domain.CorpusRepository,
	txManager domain.TransactionManager,
	store domain.CorpusStore,
	provider domain.IndexProvider,
	batchSize int,
	concurrency int,
	logger *slog.Logger,
) IngestCorpusUsecase {
	if batchSize <= 0 {
		batchSize = 32
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ingestCorpusUsecase{
		embedder:    embedder,
		repo:        repo,
		txManager:   txManager,
		store:       store,
		provider:    provider,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (u *ingestCorpusUsecase) Execute(ctx context.Context, input IngestCorpusInput) (*IngestCorpusOutput, error) {
	if len(input.Items) == 0 {
		return nil, &domain.InvalidConfigurationError{Field: "items", Reason: "corpus must not be empty"}
	}
	// Validate before any embedding work.
	seen := make(map[string]struct{}, len(input.Items))
	for i, item := range input.Items {
		if item.ID == "" {
			return nil, &domain.InvalidConfigurationError{Field: "items", Reason: fmt.Sprintf("item %d has empty id", i)}
		}
		if item.Text == "" {
			return nil, &domain.InvalidConfigurationError{Field: "items", Reason: fmt.Sprintf("item %s has empty text", item.ID)}
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("item %s: %w", item.ID, domain.ErrDuplicateID)
		}
		seen[item.ID] = struct{}{}
	}

	ingestID := uuid.New().String()
	start := time.Now()
	u.logger.Info("ingest_started",
		slog.String("ingest_id", ingestID),
		slog.Int("item_count", len(input.Items)),
		slog.String("embedder_version", u.embedder.Version()))

	vectors, err := u.embedAll(ctx, input.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus: %w", err)
	}

	now := time.Now()
	items := make([]domain.CorpusItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = domain.CorpusItem{
			ID:        in.ID,
			Text:      in.Text,
			Vector:    vectors[i],
			Metadata:  in.Metadata,
			CreatedAt: now,
		}
	}

	index := domain.NewVectorIndex()
	if err := index.AddBatch(items); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	out := &IngestCorpusOutput{
		Count:     index.Size(),
		Dimension: index.Dimension(),
	}

	if u.repo != nil {
		latest, err := u.repo.LatestRevision(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus revision: %w", err)
		}
		revision := latest + 1
		err = u.txManager.RunInTx(ctx, func(ctx context.Context) error {
			if err := u.repo.BulkInsertItems(ctx, revision, items); err != nil {
				return err
			}
			return u.repo.DeleteRevisionsBefore(ctx, revision)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist corpus revision %d: %w", revision, err)
		}
		out.Revision = revision
	}

	if u.store != nil {
		handle, err := u.store.Save(index)
		if err != nil {
			return nil, fmt.Errorf("failed to save corpus snapshot: %w", err)
		}
		out.SnapshotPath = handle
	}

	if u.provider != nil {
		u.provider.Swap(index, out.Revision)
	}

	u.logger.Info("ingest_completed",
		slog.String("ingest_id", ingestID),
		slog.Int("indexed", out.Count),
		slog.Int("dimension", out.Dimension),
		slog.Int64("revision", out.Revision),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return out, nil
}

// embedAll embeds items in batches with bounded parallelism, preserving
// input order.
func (u *ingestCorpusUsecase) embedAll(ctx context.Context, items []IngestItem) ([][]float32, error) {
	vectors := make([][]float32, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for offset := 0; offset < len(items); offset += u.batchSize {
		end := offset + u.batchSize
		if end > len(items) {
			end = len(items)
		}
		offset, end := offset, end
		g.Go(func() error {
			texts := make([]string, 0, end-offset)
			for _, item := range items[offset:end] {
				texts = append(texts, item.Text)
			}
			batch, err := u.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(batch))
			}
			copy(vectors[offset:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
