package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adcontext/internal/domain"
)

const (
	defaultPollInterval = 30 * time.Second
	reloadTimeout       = 60 * time.Second
)

// RebuildWorker keeps the served index in sync with the durable corpus.
// It polls the repository revision and, when a newer revision appears,
// builds a complete replacement index and swaps it in atomically. The live
// index is never mutated in place.
type RebuildWorker struct {
	repo         domain.CorpusRepository
	provider     domain.IndexProvider
	pollInterval time.Duration
	logger       *slog.Logger
	stopChan     chan struct{}
}

// NewRebuildWorker creates a RebuildWorker. pollInterval <= 0 uses the
// default.
func NewRebuildWorker(
	repo domain.CorpusRepository,
	provider domain.IndexProvider,
	pollInterval time.Duration,
	logger *slog.Logger,
) *RebuildWorker {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &RebuildWorker{
		repo:         repo,
		provider:     provider,
		pollInterval: pollInterval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

func (w *RebuildWorker) Start() {
	w.logger.Info("Starting RebuildWorker")
	go w.run()
}

func (w *RebuildWorker) Stop() {
	w.logger.Info("Stopping RebuildWorker")
	close(w.stopChan)
}

func (w *RebuildWorker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.checkOnce()
		}
	}
}

func (w *RebuildWorker) checkOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if _, err := w.CheckAndReload(ctx); err != nil {
		w.logger.Error("rebuild_check_failed", slog.String("error", err.Error()))
	}
}

// CheckAndReload reloads the corpus when the repository holds a newer
// revision than the one being served. Returns true when a swap happened.
func (w *RebuildWorker) CheckAndReload(ctx context.Context) (bool, error) {
	latest, err := w.repo.LatestRevision(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read latest revision: %w", err)
	}
	if latest <= w.provider.Revision() {
		return false, nil
	}

	start := time.Now()
	items, err := w.repo.LoadRevision(ctx, latest)
	if err != nil {
		return false, fmt.Errorf("failed to load revision %d: %w", latest, err)
	}

	index := domain.NewVectorIndex()
	if err := index.AddBatch(items); err != nil {
		return false, fmt.Errorf("failed to rebuild index for revision %d: %w", latest, err)
	}

	w.provider.Swap(index, latest)
	w.logger.Info("index_swapped",
		slog.Int64("revision", latest),
		slog.Int("size", index.Size()),
		slog.Int("dimension", index.Dimension()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return true, nil
}
