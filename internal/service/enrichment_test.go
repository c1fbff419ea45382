package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanhng/cv-match/internal/model"
)

func TestParseEnrichmentJSON_FencedReply(t *testing.T) {
	raw := "```json\n{\"cv_skills\": [\"Python\"], \"coverage\": 0.75, \"predicted_role\": \"Data Analyst\"}\n```"
	result, err := parseEnrichmentJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, result.CVSkills)
	assert.InDelta(t, 0.75, result.Coverage, 1e-9)
	assert.Equal(t, "Data Analyst", result.PredictedRole)
}

func TestParseEnrichmentJSON_RejectsMalformedReplies(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "[1, 2, 3]", "```json\n```"} {
		_, err := parseEnrichmentJSON(raw)
		assert.Error(t, err, "raw: %q", raw)
	}
}

func TestParseEnrichmentJSON_ClampsScoresToUnitInterval(t *testing.T) {
	result, err := parseEnrichmentJSON(`{"coverage": 1.8, "similarity": -0.3}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Coverage)
	assert.Equal(t, 0.0, result.Similarity)
}

func TestParseEnrichmentJSON_NormalizesSeverity(t *testing.T) {
	raw := `{"quality_warnings": [
		{"issue": "a", "severity": "HIGH"},
		{"issue": "b", "severity": "critical"},
		{"issue": "", "severity": "low"}
	]}`
	result, err := parseEnrichmentJSON(raw)
	require.NoError(t, err)
	require.Len(t, result.QualityWarnings, 2)
	assert.Equal(t, model.SeverityHigh, result.QualityWarnings[0].Severity)
	assert.Equal(t, model.SeverityMedium, result.QualityWarnings[1].Severity)
}

func TestParseEnrichmentJSON_DropsBlankListEntries(t *testing.T) {
	raw := `{"jd_skills": ["SQL", "  ", ""], "course_suggestions": [{"title": "", "skill": "Python"}]}`
	result, err := parseEnrichmentJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL"}, result.JDSkills)
	assert.Empty(t, result.CourseSuggestions)
}

func TestSummarizeForPrompt_ShortTextUnchanged(t *testing.T) {
	e := newTestExtractor(t, nil)
	assert.Equal(t, "python developer", summarizeForPrompt(e, "  python developer  ", 100))
}

func TestSummarizeForPrompt_CutsOnRuneBoundary(t *testing.T) {
	e := newTestExtractor(t, nil)
	text := strings.Repeat("é", 40)
	got := summarizeForPrompt(e, text, 21)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 21)
}

func TestSummarizeForPrompt_TruncatesAndAppendsSkills(t *testing.T) {
	e := newTestExtractor(t, nil)
	long := "python developer with sql experience and many more words about nothing in particular repeated"
	got := summarizeForPrompt(e, long, 20)
	assert.Contains(t, got, "Key skills:")
	assert.Contains(t, got, "Python")
}

func TestBuildEnrichmentPrompt_ListsKnownSkills(t *testing.T) {
	prompt := buildEnrichmentPrompt("cv text", "jd text", []string{"Python", "SQL"}, nil)
	assert.Contains(t, prompt, "Python, SQL")
	assert.Contains(t, prompt, "Known JD skills (for reference): None")
	assert.Contains(t, prompt, "Return JSON ONLY")
}
