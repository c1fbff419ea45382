package repository

import (
	"github.com/pgvector/pgvector-go"
	"github.com/thanhng/cv-match/internal/model"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) CreateJob(job *model.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) UpdateJob(job *model.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) FindJobByID(id string) (*model.Job, error) {
	var j model.Job
	err := r.db.First(&j, "id = ?", id).Error
	return &j, err
}

func (r *JobRepository) ListPublished() ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Where("published = ?", true).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// SearchNearest ranks published jobs by embedding distance to the given CV
// vector using the pgvector <-> operator.
func (r *JobRepository) SearchNearest(embedding pgvector.Vector, topK int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM jobs
        WHERE published = true AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&jobs).Error
	return jobs, err
}
