package service

import (
	"regexp"
	"strings"

	"github.com/thanhng/cv-match/internal/model"
)

var (
	qualityEmailRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[A-Za-z]{2,}\b`)
	qualityPhoneRe = regexp.MustCompile(`\+?\d[\d\s\-]{7,}`)
	qualityWordRe  = regexp.MustCompile(`\w+`)
)

// QualityAnalyzer runs a fixed, ordered set of independent structural checks
// on a CV. Every rule is evaluated unconditionally; several warnings can fire
// for the same document.
type QualityAnalyzer struct{}

func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{}
}

func (a *QualityAnalyzer) Analyze(text string, cvSkills []string) []model.QualityWarning {
	warnings := []model.QualityWarning{}
	lowered := strings.ToLower(text)

	if !qualityEmailRe.MatchString(text) {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "Missing email address",
			Severity:       model.SeverityHigh,
			Recommendation: "Add a professional email so recruiters can reach you.",
		})
	}

	if !qualityPhoneRe.MatchString(text) {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "Missing phone number",
			Severity:       model.SeverityMedium,
			Recommendation: "Include a reachable phone number at the top of your CV.",
		})
	}

	if len(qualityWordRe.FindAllString(text, -1)) < 150 {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "CV may be too short",
			Severity:       model.SeverityMedium,
			Recommendation: "Expand on your responsibilities and achievements. Aim for at least one page.",
		})
	}

	if !strings.Contains(lowered, "experience") {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "Experience section not detected",
			Severity:       model.SeverityHigh,
			Recommendation: "Add a section detailing your work or project experience.",
		})
	}

	if !strings.Contains(lowered, "education") {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "Education section not detected",
			Severity:       model.SeverityMedium,
			Recommendation: "Include your education history with degrees, institutions, and graduation dates.",
		})
	}

	if !strings.Contains(lowered, "skill") && len(cvSkills) == 0 {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "Skills section not detected",
			Severity:       model.SeverityMedium,
			Recommendation: "Add a dedicated skills section highlighting your technical and soft skills.",
		})
	}

	if len(cvSkills) == 0 {
		warnings = append(warnings, model.QualityWarning{
			Issue:          "No skills extracted",
			Severity:       model.SeverityMedium,
			Recommendation: "List your core skills explicitly using bullet points.",
		})
	}

	return warnings
}
