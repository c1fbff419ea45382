package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const openRouterCompletionsURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterEnrichment is the OpenRouter-backed enrichment collaborator,
// interchangeable with the Gemini one.
type OpenRouterEnrichment struct {
	client    *resty.Client
	apiKey    string
	model     string
	extractor *SkillExtractor
	logger    *zap.Logger
}

func NewOpenRouterEnrichment(apiKey, model string, extractor *SkillExtractor, logger *zap.Logger) *OpenRouterEnrichment {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(1)
	return &OpenRouterEnrichment{
		client:    client,
		apiKey:    apiKey,
		model:     model,
		extractor: extractor,
		logger:    logger,
	}
}

func (o *OpenRouterEnrichment) Analyze(ctx context.Context, cvText, jdText string, cvSkills, jdSkills []string) (*EnrichmentResult, error) {
	prompt := buildEnrichmentPrompt(
		summarizeForPrompt(o.extractor, cvText, 1600),
		summarizeForPrompt(o.extractor, jdText, 1200),
		cvSkills, jdSkills,
	)

	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": o.model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an AI assistant helping recruiters screen candidates."},
				{"role": "user", "content": prompt},
			},
		}).
		Post(openRouterCompletionsURL)
	if err != nil {
		return nil, fmt.Errorf("openrouter enrichment failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openrouter enrichment returned status %d", resp.StatusCode())
	}

	content := gjson.Get(resp.String(), "choices.0.message.content").String()
	if content == "" {
		return nil, fmt.Errorf("openrouter enrichment returned no content")
	}
	return parseEnrichmentJSON(content)
}
