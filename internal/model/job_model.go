package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Job struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title             string          `json:"title"`
	CompanyName       string          `json:"company_name"`
	JDText            string          `gorm:"column:jd_text;type:text" json:"jd_text"`
	CoverageThreshold float64         `gorm:"default:0.6" json:"coverage_threshold"`
	Status            string          `gorm:"type:varchar(50);default:'open'" json:"status"`
	Published         bool            `gorm:"default:false" json:"published"`
	Embedding         pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// Threshold returns the job's coverage threshold, or the given fallback when
// the job is nil or has none set.
func (j *Job) Threshold(fallback float64) float64 {
	if j == nil || j.CoverageThreshold <= 0 {
		return fallback
	}
	return j.CoverageThreshold
}
