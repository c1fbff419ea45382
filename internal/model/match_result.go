package model

// Severity of a CV quality warning.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type QualityWarning struct {
	Issue          string   `json:"issue"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation,omitempty"`
}

type CourseSuggestion struct {
	Skill    string `json:"skill"`
	Title    string `json:"title"`
	Provider string `json:"provider,omitempty"`
	URL      string `json:"url,omitempty"`
}

// MatchResult is the immutable output of one scoring call.
type MatchResult struct {
	CVSkills          []string           `json:"cv_skills"`
	JDSkills          []string           `json:"jd_skills"`
	Matched           []string           `json:"matched"`
	Missing           []string           `json:"missing"`
	Coverage          float64            `json:"coverage"`
	Similarity        float64            `json:"similarity"`
	Passed            bool               `json:"passed"`
	PredictedRole     string             `json:"predicted_role"`
	QualityWarnings   []QualityWarning   `json:"quality_warnings"`
	CourseSuggestions []CourseSuggestion `json:"course_suggestions"`
}
