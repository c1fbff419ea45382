package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiEnrichment asks Gemini for an enriched analysis of a CV against a
// job description. Failures are plain errors; the orchestrator fails open.
type GeminiEnrichment struct {
	client         *genai.Client
	model          string
	extractor      *SkillExtractor
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewGeminiEnrichment(client *genai.Client, model string, extractor *SkillExtractor, logger *zap.Logger) *GeminiEnrichment {
	return &GeminiEnrichment{
		client:         client,
		model:          model,
		extractor:      extractor,
		requestTimeout: 60 * time.Second,
		logger:         logger,
	}
}

func (g *GeminiEnrichment) Analyze(ctx context.Context, cvText, jdText string, cvSkills, jdSkills []string) (*EnrichmentResult, error) {
	prompt := buildEnrichmentPrompt(
		summarizeForPrompt(g.extractor, cvText, 1600),
		summarizeForPrompt(g.extractor, jdText, 1200),
		cvSkills, jdSkills,
	)

	timeoutCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	result, err := g.client.Models.GenerateContent(timeoutCtx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini enrichment failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini enrichment returned no content")
	}

	return parseEnrichmentJSON(result.Text())
}
