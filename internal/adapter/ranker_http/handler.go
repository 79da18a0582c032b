package ranker_http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"adcontext/internal/domain"
	"adcontext/internal/usecase"
)

type Handler struct {
	rankUsecase   usecase.RankContextUsecase
	ingestUsecase usecase.IngestCorpusUsecase
	provider      domain.IndexProvider
}

func NewHandler(
	rankUsecase usecase.RankContextUsecase,
	ingestUsecase usecase.IngestCorpusUsecase,
	provider domain.IndexProvider,
) *Handler {
	return &Handler{
		rankUsecase:   rankUsecase,
		ingestUsecase: ingestUsecase,
		provider:      provider,
	}
}

// Register attaches the handler routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/context/rank", h.RankContext)
	e.POST("/internal/corpus/ingest", h.IngestCorpus)
	e.GET("/v1/corpus/stats", h.CorpusStats)
	e.GET("/health", h.Health)
}

type rankRequest struct {
	ClientText string   `json:"client_text"`
	TopK       int      `json:"top_k,omitempty"`
	MinScore   *float32 `json:"min_score,omitempty"`
}

type rankResult struct {
	ItemID    string            `json:"item_id"`
	Score     float32           `json:"score"`
	Rank      int               `json:"rank"`
	Rationale string            `json:"rationale"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type rankResponse struct {
	Results []rankResult `json:"results"`
}

// RankContext returns the corpus items most relevant to the posted landing
// page text. An empty result list is a valid response, not an error.
// (POST /v1/context/rank)
func (h *Handler) RankContext(ctx echo.Context) error {
	var req rankRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	input := usecase.RankContextInput{
		Document: domain.ClientDocument{RawText: req.ClientText},
		TopK:     req.TopK,
		MinScore: req.MinScore,
	}
	output, err := h.rankUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return ctx.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	results := make([]rankResult, 0, len(output.Results))
	for _, r := range output.Results {
		results = append(results, rankResult{
			ItemID:    r.ItemID,
			Score:     r.Score,
			Rank:      r.Rank,
			Rationale: r.Rationale,
			Metadata:  r.Metadata,
		})
	}
	return ctx.JSON(http.StatusOK, rankResponse{Results: results})
}

type ingestRequest struct {
	Items []ingestItem `json:"items"`
}

type ingestItem struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ingestResponse struct {
	Revision  int64 `json:"revision"`
	Count     int   `json:"count"`
	Dimension int   `json:"dimension"`
}

// IngestCorpus rebuilds the corpus from the posted snippets.
// (POST /internal/corpus/ingest)
func (h *Handler) IngestCorpus(ctx echo.Context) error {
	var req ingestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	items := make([]usecase.IngestItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.IngestItem{
			ID:       it.ID,
			Text:     it.Text,
			Metadata: it.Metadata,
		})
	}
	output, err := h.ingestUsecase.Execute(ctx.Request().Context(), usecase.IngestCorpusInput{Items: items})
	if err != nil {
		return ctx.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, ingestResponse{
		Revision:  output.Revision,
		Count:     output.Count,
		Dimension: output.Dimension,
	})
}

type statsResponse struct {
	Size      int   `json:"size"`
	Dimension int   `json:"dimension"`
	Revision  int64 `json:"revision"`
}

// CorpusStats reports the served corpus size, dimension, and revision.
// (GET /v1/corpus/stats)
func (h *Handler) CorpusStats(ctx echo.Context) error {
	index := h.provider.Current()
	stats := domain.CorpusStats{
		Size:      index.Size(),
		Dimension: index.Dimension(),
		Revision:  h.provider.Revision(),
	}
	return ctx.JSON(http.StatusOK, statsResponse{
		Size:      stats.Size,
		Dimension: stats.Dimension,
		Revision:  stats.Revision,
	})
}

// Health reports liveness.
// (GET /health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps the domain error taxonomy to HTTP statuses. Caller
// misuse is 4xx; embedding or storage trouble is a 502/500.
func statusForError(err error) int {
	var invalidCfg *domain.InvalidConfigurationError
	var embErr *domain.EmbeddingError
	var dimErr *domain.DimensionMismatchError
	switch {
	case errors.As(err, &invalidCfg):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.As(err, &embErr):
		return http.StatusBadGateway
	case errors.As(err, &dimErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
