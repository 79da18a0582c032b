package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"adcontext/internal/domain"
)

// queryTextLimit bounds how much raw landing-page text goes into the
// enriched query ahead of the extracted themes.
const queryTextLimit = 500

// RankContextInput defines the input parameters for RankContext.
type RankContextInput struct {
	Document domain.ClientDocument
	// TopK overrides the configured default when positive; zero means
	// "use the configured value". Negative values are rejected.
	TopK int
	// MinScore overrides the configured relevance floor when non-nil.
	MinScore *float32
}

// RankContextOutput defines the output for RankContext.
type RankContextOutput struct {
	Results []domain.RelevanceResult
}

// RankContextUsecase selects the corpus items most relevant to a client
// document. An empty result list is a valid "no relevant context" outcome,
// distinguishable from an error.
type RankContextUsecase interface {
	Execute(ctx context.Context, input RankContextInput) (*RankContextOutput, error)
}

type rankContextUsecase struct {
	provider  domain.IndexProvider
	embedder  domain.Embedder
	extractor domain.KeywordExtractor
	rationale *RationaleBuilder
	cfg       RankingConfig
	logger    *slog.Logger
}

// NewRankContextUsecase creates a new RankContextUsecase.
func NewRankContextUsecase(
	provider domain.IndexProvider,
	embedder domain.Embedder,
	extractor domain.KeywordExtractor,
	rationale *RationaleBuilder,
	cfg RankingConfig,
	logger *slog.Logger,
) RankContextUsecase {
	return &rankContextUsecase{
		provider:  provider,
		embedder:  embedder,
		extractor: extractor,
		rationale: rationale,
		cfg:       cfg,
		logger:    logger,
	}
}

func (u *rankContextUsecase) Execute(ctx context.Context, input RankContextInput) (*RankContextOutput, error) {
	// Resolve effective config and fail fast before any computation.
	cfg := u.cfg
	if input.TopK != 0 {
		cfg.TopK = input.TopK
	}
	if input.MinScore != nil {
		cfg.MinScore = *input.MinScore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rankingID := uuid.New().String()
	start := time.Now()

	doc := strings.TrimSpace(input.Document.RawText)
	docKeywords := u.extractor.Extract(doc, cfg.MaxKeywords)

	// Embed the query. Theme enrichment mirrors how the landing page was
	// summarized for retrieval: a bounded slice of the raw text plus its
	// top extracted phrases.
	queryText := doc
	if cfg.EnrichQuery && len(docKeywords) > 0 {
		queryText = enrichQuery(doc, docKeywords)
	}
	queryVector, err := u.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed client document: %w", err)
	}

	// Over-fetch so the relevance floor can be applied without re-querying.
	index := u.provider.Current()
	hits, err := index.Search(queryVector, cfg.TopK*cfg.OverfetchFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to search corpus: %w", err)
	}

	// Drop candidates strictly below the floor, keep similarity order,
	// truncate to TopK.
	kept := hits[:0]
	for _, hit := range hits {
		if hit.Score < cfg.MinScore {
			continue
		}
		kept = append(kept, hit)
	}
	if len(kept) > cfg.TopK {
		kept = kept[:cfg.TopK]
	}

	results := make([]domain.RelevanceResult, 0, len(kept))
	for i, hit := range kept {
		itemKeywords := u.extractor.Extract(hit.Item.Text, cfg.MaxKeywords)
		results = append(results, domain.RelevanceResult{
			ItemID:    hit.Item.ID,
			Score:     hit.Score,
			Rank:      i + 1,
			Rationale: u.rationale.Build(docKeywords, itemKeywords, hit.Item.Metadata),
			Metadata:  hit.Item.Metadata,
		})
	}

	u.logger.Info("rank_completed",
		slog.String("ranking_id", rankingID),
		slog.Int("corpus_size", index.Size()),
		slog.Int("candidates", len(hits)),
		slog.Int("results", len(results)),
		slog.Int("top_k", cfg.TopK),
		slog.Float64("min_score", float64(cfg.MinScore)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &RankContextOutput{Results: results}, nil
}

func enrichQuery(doc string, keywords []domain.Keyword) string {
	head := doc
	if runes := []rune(doc); len(runes) > queryTextLimit {
		head = string(runes[:queryTextLimit])
	}
	parts := make([]string, 0, 1+len(keywords))
	parts = append(parts, head)
	for _, kw := range keywords {
		parts = append(parts, kw.Phrase)
	}
	return strings.Join(parts, " ")
}
