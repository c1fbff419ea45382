package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Embedder is the raw model inference boundary: one batch of texts in, one
// vector per text out, against a named model.
type Embedder interface {
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// GeminiEmbedder embeds text through the Gemini API with bounded retries and
// exponential backoff.
type GeminiEmbedder struct {
	client         *genai.Client
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewGeminiEmbedder(client *genai.Client, logger *zap.Logger) *GeminiEmbedder {
	return &GeminiEmbedder{
		client:         client,
		maxRetries:     2,
		baseDelay:      time.Second,
		maxDelay:       30 * time.Second,
		requestTimeout: 60 * time.Second,
		logger:         logger,
	}
}

func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		trimmed := strings.TrimSpace(t)
		if len(trimmed) > 10000 {
			trimmed = trimmed[:10000]
		}
		if trimmed == "" {
			trimmed = " "
		}
		contents = append(contents, genai.NewContentFromText(trimmed, genai.RoleUser))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.calculateBackoff(attempt)
			e.logger.Warn("retrying embedding batch",
				zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := e.client.Models.EmbedContent(timeoutCtx, model, contents, nil)
		if err == nil {
			return e.validateResponse(result, len(texts))
		}
		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("embed batch failed: %w", err)
		}
	}
	return nil, fmt.Errorf("max retries (%d) exceeded for EmbedBatch: %w", e.maxRetries, lastErr)
}

func (e *GeminiEmbedder) validateResponse(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Embeddings))
	}
	vectors := make([][]float32, 0, want)
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		for j, val := range emb.Values {
			if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
				return nil, fmt.Errorf("invalid embedding value at %d/%d: %v", i, j, val)
			}
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}

func (e *GeminiEmbedder) calculateBackoff(attempt int) time.Duration {
	delay := e.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > e.maxDelay {
		delay = e.maxDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}
	return false
}
