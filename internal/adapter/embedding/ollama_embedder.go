package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"adcontext/internal/domain"
	"adcontext/internal/infra/httpclient"
)

// OllamaEmbedder generates embeddings via the Ollama /api/embed endpoint.
// Vectors are L2-normalized client-side so cosine similarity reduces to an
// inner product, and over-long inputs are truncated to MaxInputChars runes
// before the model call. Truncation is a documented policy, not an error.
type OllamaEmbedder struct {
	baseURL       string
	model         string
	dimension     int
	maxInputChars int
	client        *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
}

// Config holds OllamaEmbedder settings.
type Config struct {
	BaseURL        string
	Model          string
	Dimension      int
	MaxInputChars  int
	TimeoutSeconds int
	// RequestsPerSecond caps calls to the model service during batch
	// ingestion. Zero disables limiting.
	RequestsPerSecond float64
}

// NewOllamaEmbedder creates a new OllamaEmbedder.
func NewOllamaEmbedder(cfg Config, logger *slog.Logger) *OllamaEmbedder {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	maxChars := cfg.MaxInputChars
	if maxChars <= 0 {
		maxChars = 2000
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &OllamaEmbedder{
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		dimension:     cfg.Dimension,
		maxInputChars: maxChars,
		client:        httpclient.NewPooledClient(timeout),
		limiter:       limiter,
		logger:        logger,
	}
}

var _ domain.Embedder = (*OllamaEmbedder)(nil)

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for texts in order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	input := make([]string, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, &domain.EmbeddingError{Reason: fmt.Sprintf("input %d is empty", i)}
		}
		input[i] = truncateRunes(text, e.maxInputChars)
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &domain.EmbeddingError{Reason: "rate limiter interrupted", Err: err}
		}
	}

	start := time.Now()
	jsonData, err := json.Marshal(embedRequest{Model: e.model, Input: input})
	if err != nil {
		return nil, &domain.EmbeddingError{Reason: "failed to marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/api/embed", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &domain.EmbeddingError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("embed_request_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, &domain.EmbeddingError{Reason: "model unavailable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		e.logger.Error("embed_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
		return nil, &domain.EmbeddingError{Reason: fmt.Sprintf("model returned status %d", resp.StatusCode)}
	}

	var respBody embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, &domain.EmbeddingError{Reason: "failed to decode response", Err: err}
	}
	if len(respBody.Embeddings) != len(input) {
		return nil, &domain.EmbeddingError{
			Reason: fmt.Sprintf("expected %d embeddings, got %d", len(input), len(respBody.Embeddings)),
		}
	}

	for i, vec := range respBody.Embeddings {
		if e.dimension > 0 && len(vec) != e.dimension {
			return nil, &domain.DimensionMismatchError{Want: e.dimension, Got: len(vec)}
		}
		respBody.Embeddings[i] = NormalizeL2(vec)
	}

	e.logger.Debug("embed_completed",
		slog.Int("text_count", len(input)),
		slog.String("model", e.model),
		slog.Duration("elapsed", time.Since(start)))

	return respBody.Embeddings, nil
}

// Dimension reports the configured vector size, 0 when taken from the model.
func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// Version identifies the model.
func (e *OllamaEmbedder) Version() string { return e.model }

// NormalizeL2 scales a vector to unit length. Zero vectors are returned
// unchanged.
func NormalizeL2(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
