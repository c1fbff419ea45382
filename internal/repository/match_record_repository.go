package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thanhng/cv-match/internal/model"
	"gorm.io/gorm"
)

// MatchRecordRepository is the content-addressed match cache. Records are
// append-only: Create never overwrites, GetLatest picks the newest row for
// the exact (user, job, cv hash) key.
type MatchRecordRepository struct {
	db *gorm.DB
}

func NewMatchRecordRepository(db *gorm.DB) *MatchRecordRepository {
	return &MatchRecordRepository{db}
}

// GetLatest returns the most recent record for the key, or (nil, nil) on a
// cache miss. A miss is expected, not an error.
func (r *MatchRecordRepository) GetLatest(userID string, jobID uuid.UUID, cvHash string) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	err := r.db.
		Where("user_id = ? AND job_id = ? AND cv_hash = ?", userID, jobID, cvHash).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match cache lookup failed: %w", err)
	}
	return &rec, nil
}

// Create appends a new record. Write failures propagate to the caller.
func (r *MatchRecordRepository) Create(rec *model.MatchRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("match cache write failed: %w", err)
	}
	return nil
}

// HistoryEntry joins a match record with its job's metadata.
type HistoryEntry struct {
	Record model.MatchRecord
	Job    model.Job
}

// ListHistory returns a user's match records newest first, joined with job
// metadata. Records whose job has been deleted are skipped by the inner join.
func (r *MatchRecordRepository) ListHistory(userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.MatchRecord
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("match history query failed: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		var job model.Job
		if err := r.db.First(&job, "id = ?", rec.JobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("match history job lookup failed: %w", err)
		}
		entries = append(entries, HistoryEntry{Record: rec, Job: job})
	}
	return entries, nil
}

// ClearByUser bulk-deletes a user's match history.
func (r *MatchRecordRepository) ClearByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.MatchRecord{}).Error; err != nil {
		return fmt.Errorf("match history clear failed: %w", err)
	}
	return nil
}
