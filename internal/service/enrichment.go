package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thanhng/cv-match/internal/model"
	"github.com/tidwall/gjson"
)

// EnrichmentResult is the validated payload of an external enrichment call.
// The orchestrator overrides its deterministic baseline field-by-field from
// this struct; a nil result (any failure) leaves the baseline untouched.
type EnrichmentResult struct {
	CVSkills          []string
	JDSkills          []string
	Matched           []string
	Missing           []string
	Coverage          float64
	Similarity        float64
	PredictedRole     string
	QualityWarnings   []model.QualityWarning
	CourseSuggestions []model.CourseSuggestion
}

// EnrichmentService is the optional LLM collaborator. Implementations must
// return an error instead of a partial or malformed result.
type EnrichmentService interface {
	Analyze(ctx context.Context, cvText, jdText string, cvSkills, jdSkills []string) (*EnrichmentResult, error)
}

// buildEnrichmentPrompt mirrors the deterministic result schema so the reply
// can replace it wholesale.
func buildEnrichmentPrompt(cvExcerpt, jdExcerpt string, cvSkills, jdSkills []string) string {
	return fmt.Sprintf(`You are an AI assistant helping recruiters screen candidates.
Analyse the candidate CV against the job description.
Return JSON ONLY with the following structure:
{
  "cv_skills": ["skill1", "skill2"],
  "jd_skills": ["skillA", "skillB"],
  "matched_skills": ["..."],
  "missing_skills": ["..."],
  "coverage": 0.0,
  "similarity": 0.0,
  "predicted_role": "Likely role that fits the CV",
  "quality_warnings": [
      {"issue": "Missing contact info", "severity": "high", "recommendation": "Add an email address."}
  ],
  "course_suggestions": [
      {"skill": "Python", "title": "Python for Everybody", "provider": "Coursera", "url": "https://..."}
  ]
}

- coverage and similarity must be floats between 0 and 1.
- Do not add explanations outside the JSON.
- Use concise phrasing.

Job description:
"""
%s
"""

Candidate CV:
"""
%s
"""

Known CV skills (for reference): %s
Known JD skills (for reference): %s
`, jdExcerpt, cvExcerpt, joinOrNone(cvSkills), joinOrNone(jdSkills))
}

func joinOrNone(skills []string) string {
	if len(skills) == 0 {
		return "None"
	}
	return strings.Join(skills, ", ")
}

// summarizeForPrompt truncates long documents and appends the top extracted
// skills so the excerpt keeps its signal.
func summarizeForPrompt(extractor *SkillExtractor, text string, maxLength int) string {
	stripped := strings.TrimSpace(text)
	if len(stripped) <= maxLength {
		return stripped
	}
	// cut on a rune boundary so the excerpt stays valid UTF-8
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(stripped[cut]) {
		cut--
	}
	summary := stripped[:cut]
	if skills := extractor.Extract(stripped, 10); len(skills) > 0 {
		summary += "\nKey skills: " + strings.Join(skills, ", ")
	}
	return summary
}

// cleanJSONText strips markdown code fences LLMs like to wrap JSON in.
func cleanJSONText(raw string) string {
	cleaned := strings.Trim(raw, "` \n\t")
	if strings.HasPrefix(strings.ToLower(cleaned), "json") {
		cleaned = strings.TrimSpace(cleaned[4:])
	}
	return strings.Trim(cleaned, "` \n\t")
}

// parseEnrichmentJSON validates the raw model reply into a typed result.
// Any structural problem is an error; the caller falls back to the baseline.
func parseEnrichmentJSON(raw string) (*EnrichmentResult, error) {
	cleaned := cleanJSONText(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty enrichment response")
	}
	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("enrichment response is not valid JSON")
	}
	root := gjson.Parse(cleaned)
	if !root.IsObject() {
		return nil, fmt.Errorf("enrichment response is not a JSON object")
	}

	result := &EnrichmentResult{
		CVSkills:      stringList(root.Get("cv_skills")),
		JDSkills:      stringList(root.Get("jd_skills")),
		Matched:       stringList(root.Get("matched_skills")),
		Missing:       stringList(root.Get("missing_skills")),
		Coverage:      clampUnit(root.Get("coverage").Float()),
		Similarity:    clampUnit(root.Get("similarity").Float()),
		PredictedRole: strings.TrimSpace(root.Get("predicted_role").String()),
	}

	for _, w := range root.Get("quality_warnings").Array() {
		issue := strings.TrimSpace(w.Get("issue").String())
		if issue == "" {
			continue
		}
		result.QualityWarnings = append(result.QualityWarnings, model.QualityWarning{
			Issue:          issue,
			Severity:       normalizeSeverity(w.Get("severity").String()),
			Recommendation: strings.TrimSpace(w.Get("recommendation").String()),
		})
	}

	for _, c := range root.Get("course_suggestions").Array() {
		title := strings.TrimSpace(c.Get("title").String())
		if title == "" {
			continue
		}
		result.CourseSuggestions = append(result.CourseSuggestions, model.CourseSuggestion{
			Skill:    strings.TrimSpace(c.Get("skill").String()),
			Title:    title,
			Provider: strings.TrimSpace(c.Get("provider").String()),
			URL:      strings.TrimSpace(c.Get("url").String()),
		})
	}

	return result, nil
}

func stringList(value gjson.Result) []string {
	out := []string{}
	for _, item := range value.Array() {
		s := strings.TrimSpace(item.String())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeSeverity(raw string) model.Severity {
	switch model.Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case model.SeverityLow:
		return model.SeverityLow
	case model.SeverityHigh:
		return model.SeverityHigh
	default:
		return model.SeverityMedium
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
