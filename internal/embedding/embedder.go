package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/talentmatch/talent-match/internal/config"
	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
	"github.com/talentmatch/talent-match/internal/pkg/logger"
)

// API is the subset of the OpenAI client used for embedding generation.
type API interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Embedder generates text embeddings via an OpenAI-compatible API with
// caching and client-side rate limiting.
type Embedder struct {
	api        API
	model      openai.EmbeddingModel
	dimensions int
	batchSize  int
	limiter    *rate.Limiter
	cache      Cache
	logger     *logger.Logger
}

// NewEmbedder creates an embedder from configuration.
// cache may be nil to disable caching.
func NewEmbedder(cfg config.OpenAIConfig, cache Cache, log *logger.Logger) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return newEmbedder(openai.NewClientWithConfig(clientCfg), cfg, cache, log)
}

func newEmbedder(api API, cfg config.OpenAIConfig, cache Cache, log *logger.Logger) *Embedder {
	batchSize := cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	if log == nil {
		log = logger.Default()
	}

	return &Embedder{
		api:        api,
		model:      openai.EmbeddingModel(cfg.EmbedModel),
		dimensions: cfg.EmbedDim,
		batchSize:  batchSize,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache,
		logger:     log.WithComponent("embedding"),
	}
}

// Dimensions returns the configured embedding dimensionality.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// EmbedText generates an embedding for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	results, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// EmbedBatch generates embeddings for texts, preserving input order.
// Cached texts are served locally; only misses hit the API.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))

	// Resolve cache hits and collect misses
	var missTexts []string
	var missIndexes []int
	for i, text := range texts {
		if e.cache != nil {
			if emb, ok := e.cache.Get(ctx, text); ok {
				results[i] = emb
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}

	if len(missTexts) > 0 {
		e.logger.Debug("embedding texts",
			"total", len(texts),
			"cached", len(texts)-len(missTexts),
			"requested", len(missTexts))
	}

	for start := 0; start < len(missTexts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(missTexts) {
			end = len(missTexts)
		}

		batch := missTexts[start:end]
		embeddings, err := e.requestEmbeddings(ctx, batch)
		if err != nil {
			return nil, err
		}

		for j, emb := range embeddings {
			idx := missIndexes[start+j]
			results[idx] = emb
			if e.cache != nil {
				e.cache.Set(ctx, texts[idx], emb)
			}
		}
	}

	return results, nil
}

// requestEmbeddings makes one API call for a batch of texts.
func (e *Embedder) requestEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, apperrors.EmbeddingError("rate limiter wait interrupted", err)
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	// ada-002 rejects the dimensions parameter
	if e.dimensions > 0 && strings.HasPrefix(string(e.model), "text-embedding-3") {
		req.Dimensions = e.dimensions
	}

	resp, err := e.api.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, parseAPIError(err)
	}

	if len(resp.Data) != len(texts) {
		return nil, apperrors.EmbeddingError(
			fmt.Sprintf("embedding response count mismatch: sent %d, got %d", len(texts), len(resp.Data)), nil)
	}

	// The API may return data out of order; place by index
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, apperrors.EmbeddingError(
				fmt.Sprintf("embedding response index out of range: %d", d.Index), nil)
		}
		if e.dimensions > 0 && len(d.Embedding) != e.dimensions {
			return nil, apperrors.EmbeddingError(
				fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.dimensions, len(d.Embedding)), nil)
		}
		embeddings[d.Index] = d.Embedding
	}

	return embeddings, nil
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return apperrors.EmbeddingError(
			fmt.Sprintf("embedding API error %d: %s", reqErr.HTTPStatusCode, detail), err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.EmbeddingError(
			fmt.Sprintf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message), err)
	}

	return apperrors.EmbeddingError("embedding request failed", err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
