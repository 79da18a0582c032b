package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"adcontext/internal/adapter/corpusstore"
	"adcontext/internal/adapter/embedding"
	"adcontext/internal/adapter/repository"
	"adcontext/internal/domain"
	"adcontext/internal/infra"
	"adcontext/internal/infra/config"
	"adcontext/internal/usecase"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// Run command flags
	inputFile   string
	batchSize   int
	concurrency int
	skipDB      bool
	dryRun      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ingest",
	Short:   "Build the ad-context news corpus",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Embed and index a news corpus file",
	Long: `Embed every snippet in the input file, build a fresh index, persist it
to the database and the snapshot pair, and report a summary.

The input file is a JSON array of snippets:

  [{"id": "n-1", "text": "...", "metadata": {"source": "Reuters"}}]

Examples:
  # Full ingestion into database and snapshot
  ingest run --file news.json

  # Snapshot only, no database
  ingest run --file news.json --skip-db

  # Validate the input without embedding anything
  ingest run --file news.json --dry-run`,
	RunE: runIngest,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the persisted corpus stats",
	RunE:  showStats,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	runCmd.Flags().StringVar(&inputFile, "file", "", "input JSON file of news snippets (required)")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 32, "snippets per embedding request")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent embedding requests")
	runCmd.Flags().BoolVar(&skipDB, "skip-db", false, "write only the snapshot pair, skip the database")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the input without embedding or writing")
	_ = runCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type inputSnippet struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func loadSnippets(path string) ([]usecase.IngestItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var snippets []inputSnippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	items := make([]usecase.IngestItem, 0, len(snippets))
	for _, s := range snippets {
		items = append(items, usecase.IngestItem{ID: s.ID, Text: s.Text, Metadata: s.Metadata})
	}
	return items, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()

	items, err := loadSnippets(inputFile)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("Input OK: %d snippets in %s\n", len(items), inputFile)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	embedder := embedding.NewOllamaEmbedder(embedding.Config{
		BaseURL:           cfg.OllamaURL,
		Model:             cfg.EmbeddingModel,
		Dimension:         cfg.EmbeddingDimension,
		MaxInputChars:     cfg.MaxInputChars,
		TimeoutSeconds:    cfg.EmbeddingTimeout,
		RequestsPerSecond: cfg.EmbedRatePerSecond,
	}, log)

	var (
		repo      domain.CorpusRepository
		txManager domain.TransactionManager
	)
	if cfg.DBEnabled && !skipDB {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		defer pool.Close()
		if err := repository.EnsureSchema(ctx, pool, cfg.EmbeddingDimension); err != nil {
			return err
		}
		repo = repository.NewCorpusRepository(pool)
		txManager = repository.NewPostgresTransactionManager(pool)
	}

	store := corpusstore.NewFileStore(cfg.SnapshotDir, cfg.SnapshotName)
	ingest := usecase.NewIngestCorpusUsecase(
		embedder, repo, txManager, store, nil, batchSize, concurrency, log)

	out, err := ingest.Execute(ctx, usecase.IngestCorpusInput{Items: items})
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d snippets (dimension %d)\n", out.Count, out.Dimension)
	if out.Revision > 0 {
		fmt.Printf("Corpus revision: %d\n", out.Revision)
	}
	if out.SnapshotPath != "" {
		fmt.Printf("Snapshot: %s\n", out.SnapshotPath)
	}
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store := corpusstore.NewFileStore(cfg.SnapshotDir, cfg.SnapshotName)

	if !store.Exists(store.Handle()) {
		fmt.Println("No snapshot found.")
		return nil
	}
	index, err := store.Load(store.Handle())
	if err != nil {
		return err
	}
	stats := domain.CorpusStats{
		Size:      index.Size(),
		Dimension: index.Dimension(),
	}
	fmt.Printf("Snapshot: %s\n", store.Handle())
	fmt.Printf("Items: %d\n", stats.Size)
	fmt.Printf("Dimension: %d\n", stats.Dimension)
	return nil
}
