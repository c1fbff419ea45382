package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thanhng/cv-match/internal/model"
)

func solidCV() string {
	return "Jane Doe\njane.doe@example.com\n+62 812 3456 7890\n" +
		"Experience: five years as a data analyst.\n" +
		"Education: BSc in Statistics.\n" +
		"Skills: Python, SQL, Tableau.\n" +
		strings.Repeat("delivered measurable business results across analytics projects ", 30)
}

func issues(warnings []model.QualityWarning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Issue
	}
	return out
}

func TestQualityAnalyze_CleanCVHasNoWarnings(t *testing.T) {
	a := NewQualityAnalyzer()
	warnings := a.Analyze(solidCV(), []string{"Python", "SQL"})
	assert.Empty(t, warnings)
}

func TestQualityAnalyze_MissingEmailIsHighSeverity(t *testing.T) {
	a := NewQualityAnalyzer()
	text := strings.ReplaceAll(solidCV(), "jane.doe@example.com", "")
	warnings := a.Analyze(text, []string{"Python"})
	assert.Contains(t, issues(warnings), "Missing email address")
	for _, w := range warnings {
		if w.Issue == "Missing email address" {
			assert.Equal(t, model.SeverityHigh, w.Severity)
		}
	}
}

func TestQualityAnalyze_ShortCV(t *testing.T) {
	a := NewQualityAnalyzer()
	warnings := a.Analyze("jane@example.com +62 812 3456 7890 experience education skills", []string{"Python"})
	assert.Contains(t, issues(warnings), "CV may be too short")
}

func TestQualityAnalyze_MultipleWarningsKeepRuleOrder(t *testing.T) {
	a := NewQualityAnalyzer()
	warnings := a.Analyze("short note with no contact details", []string{})

	got := issues(warnings)
	assert.Equal(t, []string{
		"Missing email address",
		"Missing phone number",
		"CV may be too short",
		"Experience section not detected",
		"Education section not detected",
		"Skills section not detected",
		"No skills extracted",
	}, got)
}

func TestQualityAnalyze_SkillMentionSuppressesSectionWarningOnly(t *testing.T) {
	a := NewQualityAnalyzer()
	text := strings.ReplaceAll(solidCV(), "Skills:", "Skill highlights:")
	warnings := a.Analyze(text, []string{})

	got := issues(warnings)
	assert.NotContains(t, got, "Skills section not detected")
	assert.Contains(t, got, "No skills extracted")
}
