package model

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one row of the append-only match history. Rows are never
// updated: a changed CV produces a new content hash and therefore new rows,
// and the newest row for a (user, job, hash) key is the authoritative one.
type MatchRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       string    `gorm:"index:idx_match_key;type:varchar(64)" json:"user_id"`
	JobID        uuid.UUID `gorm:"index:idx_match_key;type:uuid" json:"job_id"`
	CVHash       string    `gorm:"index:idx_match_key;column:cv_hash;type:varchar(64)" json:"cv_hash"`
	Score        float64   `gorm:"type:float" json:"score"`
	Coverage     float64   `gorm:"type:float" json:"coverage"`
	Similarity   float64   `gorm:"type:float" json:"similarity"`
	AnalysisJSON string    `gorm:"column:analysis_json;type:jsonb" json:"analysis_json"`
	CVSource     string    `gorm:"column:cv_source" json:"cv_source"`
	CVLabel      string    `gorm:"column:cv_label" json:"cv_label"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *MatchRecord) TableName() string {
	return "match_records"
}
