package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thanhng/cv-match/internal/model"
)

type JobSummaryDTO struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	CompanyName       string    `json:"company_name"`
	JDText            string    `json:"jd_text,omitempty"`
	CoverageThreshold float64   `json:"coverage_threshold"`
	Status            string    `json:"status"`
	Published         bool      `json:"published"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewJobSummaryDTO(job model.Job) JobSummaryDTO {
	return JobSummaryDTO{
		ID:                job.ID,
		Title:             job.Title,
		CompanyName:       job.CompanyName,
		JDText:            job.JDText,
		CoverageThreshold: job.CoverageThreshold,
		Status:            job.Status,
		Published:         job.Published,
		CreatedAt:         job.CreatedAt,
	}
}

type ScoredJobDTO struct {
	Job       JobSummaryDTO     `json:"job"`
	Match     model.MatchResult `json:"match"`
	Score     float64           `json:"score"`
	MatchedAt time.Time         `json:"matched_at"`
	Cached    bool              `json:"cached"`
}

type HistoryItemDTO struct {
	Job       JobSummaryDTO     `json:"job"`
	Match     model.MatchResult `json:"match"`
	Score     float64           `json:"score"`
	MatchedAt time.Time         `json:"matched_at"`
	CVSource  string            `json:"cv_source,omitempty"`
	CVLabel   string            `json:"cv_label,omitempty"`
}
