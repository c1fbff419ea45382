package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ErrEmbeddingsUnavailable signals that no embedding model could be acquired
// for this process. Callers must switch to their lexical fallback; the
// service never fakes vectors.
var ErrEmbeddingsUnavailable = errors.New("embedding model unavailable")

// EmbeddingService owns the shared embedding model and a bounded LRU cache
// mapping trimmed text to its vector. The model is acquired lazily on first
// use: the primary model is tried first, then the fallback; if both fail the
// service stays unavailable for the rest of the process with no further
// attempts.
type EmbeddingService struct {
	embedder Embedder
	primary  string
	fallback string

	mu          sync.Mutex
	model       string
	unavailable bool

	cache  *lru.Cache[string, []float32]
	logger *zap.Logger
}

func NewEmbeddingService(embedder Embedder, primary, fallback string, cacheSize int, logger *zap.Logger) *EmbeddingService {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	s := &EmbeddingService{
		embedder: embedder,
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		logger:   logger,
	}
	if embedder == nil {
		s.unavailable = true
	}
	return s
}

// Encode returns one vector per input text, in input order. Cache hits are
// served locally; all misses go to the model in a single batch. Returns
// ErrEmbeddingsUnavailable once the model has been marked unusable.
func (s *EmbeddingService) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	keys := make([]string, len(texts))
	vectors := make([][]float32, len(texts))
	missKeys := []string{}
	missIdx := []int{}
	missSeen := make(map[string]bool)

	for i, t := range texts {
		key := strings.TrimSpace(t)
		keys[i] = key
		if v, ok := s.cache.Get(key); ok {
			vectors[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		if !missSeen[key] {
			missSeen[key] = true
			missKeys = append(missKeys, key)
		}
	}

	if len(missKeys) > 0 {
		fresh, err := s.embedMisses(ctx, missKeys)
		if err != nil {
			return nil, err
		}
		byKey := make(map[string][]float32, len(missKeys))
		for i, key := range missKeys {
			byKey[key] = fresh[i]
			s.cache.Add(key, fresh[i])
		}
		for _, i := range missIdx {
			vectors[i] = byKey[keys[i]]
		}
	}
	return vectors, nil
}

// embedMisses picks the working model under the init lock, latching
// unavailability permanently if neither the primary nor the fallback model
// answers.
func (s *EmbeddingService) embedMisses(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return nil, ErrEmbeddingsUnavailable
	}
	if s.model != "" {
		return s.embedder.EmbedBatch(ctx, s.model, texts)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, s.primary, texts)
	if err == nil {
		s.model = s.primary
		s.logger.Info("embedding model ready", zap.String("model", s.model))
		return vectors, nil
	}
	s.logger.Warn("primary embedding model failed, trying fallback",
		zap.String("model", s.primary), zap.Error(err))

	vectors, err = s.embedder.EmbedBatch(ctx, s.fallback, texts)
	if err == nil {
		s.model = s.fallback
		s.logger.Info("embedding model ready", zap.String("model", s.model))
		return vectors, nil
	}

	s.unavailable = true
	s.logger.Warn("embeddings unavailable for this process, lexical fallback in effect",
		zap.String("fallback_model", s.fallback), zap.Error(err))
	return nil, ErrEmbeddingsUnavailable
}

// Cosine similarity of two vectors; 0.0 when either norm is zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}
	return dot / denom
}
