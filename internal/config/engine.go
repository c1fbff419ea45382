package config

import (
	"os"
	"strconv"
	"sync"
)

type EngineConfig struct {
	CoverageThreshold  float64
	TopSkills          int
	SkillsAssetPath    string
	EmbeddingCacheSize int
	EnrichmentProvider string // "gemini", "openrouter" or "" to disable
	HistoryLimit       int
}

var (
	engineConfig *EngineConfig
	engineOnce   sync.Once
)

func LoadEngineConfig() *EngineConfig {
	engineOnce.Do(func() {
		engineConfig = &EngineConfig{
			CoverageThreshold:  envFloat("ENGINE_COVERAGE_THRESHOLD", 0.6),
			TopSkills:          envInt("ENGINE_TOP_SKILLS", 20),
			SkillsAssetPath:    envString("ENGINE_SKILLS_ASSET", "assets/skills.csv"),
			EmbeddingCacheSize: envInt("ENGINE_EMBEDDING_CACHE_SIZE", 4096),
			EnrichmentProvider: os.Getenv("ENGINE_ENRICHMENT_PROVIDER"),
			HistoryLimit:       envInt("ENGINE_HISTORY_LIMIT", 50),
		}
	})
	return engineConfig
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
