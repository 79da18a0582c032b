package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"adcontext/internal/adapter/corpusstore"
	"adcontext/internal/adapter/embedding"
	"adcontext/internal/adapter/ranker_http"
	"adcontext/internal/adapter/repository"
	"adcontext/internal/domain"
	"adcontext/internal/infra"
	"adcontext/internal/infra/config"
	"adcontext/internal/infra/logger"
	"adcontext/internal/keywords"
	"adcontext/internal/usecase"
	"adcontext/internal/worker"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize OTel + Logger
	if cfg.OTelEnabled {
		shutdown, err := infra.InitOTel(context.Background(), "adcontext", cfg.OTelEndpoint)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to init otel: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}
	log := logger.NewWithOTel(cfg.OTelEnabled)
	slog.SetDefault(log)

	// 3. Initialize embedding + keyword adapters
	baseEmbedder := embedding.NewOllamaEmbedder(embedding.Config{
		BaseURL:           cfg.OllamaURL,
		Model:             cfg.EmbeddingModel,
		Dimension:         cfg.EmbeddingDimension,
		MaxInputChars:     cfg.MaxInputChars,
		TimeoutSeconds:    cfg.EmbeddingTimeout,
		RequestsPerSecond: cfg.EmbedRatePerSecond,
	}, log)
	embedder, err := embedding.NewCachedEmbedder(baseEmbedder, cfg.EmbedCacheSize)
	if err != nil {
		log.Error("failed to create embedding cache", "error", err)
		os.Exit(1)
	}
	extractor := keywords.NewExtractor()

	// 4. Restore the served index: snapshot first, then database
	store := corpusstore.NewFileStore(cfg.SnapshotDir, cfg.SnapshotName)
	provider := usecase.NewAtomicIndexProvider(nil, 0)
	if store.Exists(store.Handle()) {
		index, err := store.Load(store.Handle())
		if err != nil {
			log.Error("failed to load corpus snapshot", "error", err)
			os.Exit(1)
		}
		provider.Swap(index, 0)
		log.Info("snapshot_restored", slog.Int("size", index.Size()))
	}

	var (
		corpusRepo    domain.CorpusRepository
		txManager     domain.TransactionManager
		rebuildWorker *worker.RebuildWorker
	)
	if cfg.DBEnabled {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dbPool, err := infra.NewPostgresDB(context.Background(), dsn)
		if err != nil {
			log.Error("failed to connect to db", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := repository.EnsureSchema(context.Background(), dbPool, cfg.EmbeddingDimension); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}

		corpusRepo = repository.NewCorpusRepository(dbPool)
		txManager = repository.NewPostgresTransactionManager(dbPool)

		rebuildWorker = worker.NewRebuildWorker(corpusRepo, provider,
			time.Duration(cfg.RebuildPollSeconds)*time.Second, log)
		if _, err := rebuildWorker.CheckAndReload(context.Background()); err != nil {
			log.Warn("initial corpus reload failed", "error", err)
		}
		rebuildWorker.Start()
		defer rebuildWorker.Stop()
	}

	// 5. Initialize Usecases
	rankingCfg := usecase.RankingConfig{
		TopK:            cfg.TopK,
		MinScore:        float32(cfg.MinScore),
		OverfetchFactor: cfg.OverfetchFactor,
		MaxKeywords:     cfg.MaxKeywords,
		EnrichQuery:     cfg.EnrichQuery,
	}
	if err := rankingCfg.Validate(); err != nil {
		log.Error("invalid ranking configuration", "error", err)
		os.Exit(1)
	}
	rankUsecase := usecase.NewRankContextUsecase(
		provider,
		embedder,
		extractor,
		usecase.NewRationaleBuilder(),
		rankingCfg,
		log,
	)
	ingestUsecase := usecase.NewIngestCorpusUsecase(
		embedder,
		corpusRepo,
		txManager,
		store,
		provider,
		cfg.IngestBatchSize,
		cfg.IngestConcurrency,
		log,
	)

	// 6. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handler := ranker_http.NewHandler(rankUsecase, ingestUsecase, provider)
	handler.Register(e)

	// 7. Start server with graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("failed to shut down cleanly", "error", err)
	}
}
