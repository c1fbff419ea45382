package config

import (
	"os"
	"sync"
)

type GeminiConfig struct {
	APIKey            string
	GenerationModel   string
	EmbeddingModel    string
	EmbeddingFallback string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		generationModel := os.Getenv("GEMINI_GENERATION_MODEL")
		if generationModel == "" {
			generationModel = "gemini-2.5-flash"
		}
		embeddingModel := os.Getenv("GEMINI_EMBEDDING_MODEL")
		if embeddingModel == "" {
			embeddingModel = "gemini-embedding-001"
		}
		embeddingFallback := os.Getenv("GEMINI_EMBEDDING_FALLBACK_MODEL")
		if embeddingFallback == "" {
			embeddingFallback = "text-embedding-004"
		}
		geminiConfig = &GeminiConfig{
			APIKey:            os.Getenv("GEMINI_API_KEY"),
			GenerationModel:   generationModel,
			EmbeddingModel:    embeddingModel,
			EmbeddingFallback: embeddingFallback,
		}
	})
	return geminiConfig
}
