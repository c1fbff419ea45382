package usecase

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/thanhng/cv-match/internal/config"
	"github.com/thanhng/cv-match/internal/model"
	"github.com/thanhng/cv-match/internal/repository"
	"github.com/thanhng/cv-match/internal/service"
	"github.com/thanhng/cv-match/internal/util"
	"go.uber.org/zap"
)

// JobStore is the job persistence surface the usecase depends on.
type JobStore interface {
	CreateJob(job *model.Job) error
	FindJobByID(id string) (*model.Job, error)
	ListPublished() ([]model.Job, error)
	SearchNearest(embedding pgvector.Vector, topK int) ([]model.Job, error)
}

// MatchStore is the content-addressed match cache surface.
type MatchStore interface {
	GetLatest(userID string, jobID uuid.UUID, cvHash string) (*model.MatchRecord, error)
	Create(rec *model.MatchRecord) error
	ListHistory(userID string, limit int) ([]repository.HistoryEntry, error)
	ClearByUser(userID string) error
}

// MatchUsecase composes the engine services into one scoring pipeline and
// fronts the content-addressed match cache.
type MatchUsecase struct {
	jobRepo    JobStore
	matchRepo  MatchStore
	extractor  *service.SkillExtractor
	embeddings *service.EmbeddingService
	scorer     *service.Scorer
	quality    *service.QualityAnalyzer
	courses    *service.CourseRecommender
	roles      *service.RoleClassifier
	enrichment service.EnrichmentService // nil disables enrichment

	defaultThreshold float64
	topSkills        int
	historyLimit     int
	logger           *zap.Logger
}

func NewMatchUsecase(
	jobRepo JobStore,
	matchRepo MatchStore,
	extractor *service.SkillExtractor,
	embeddings *service.EmbeddingService,
	scorer *service.Scorer,
	enrichment service.EnrichmentService,
	cfg *config.EngineConfig,
	logger *zap.Logger,
) *MatchUsecase {
	return &MatchUsecase{
		jobRepo:          jobRepo,
		matchRepo:        matchRepo,
		extractor:        extractor,
		embeddings:       embeddings,
		scorer:           scorer,
		quality:          service.NewQualityAnalyzer(),
		courses:          service.NewCourseRecommender(),
		roles:            service.NewRoleClassifier(),
		enrichment:       enrichment,
		defaultThreshold: cfg.CoverageThreshold,
		topSkills:        cfg.TopSkills,
		historyLimit:     cfg.HistoryLimit,
		logger:           logger,
	}
}

// Analyze scores a CV against an optional job. It is total: any input,
// including empty text and a nil job, yields a structurally valid result and
// never an error.
func (uc *MatchUsecase) Analyze(ctx context.Context, cvText string, job *model.Job) model.MatchResult {
	jdText := ""
	threshold := job.Threshold(uc.defaultThreshold)
	if job != nil {
		jdText = strings.TrimSpace(job.JDText)
	}

	cvSkills := uc.extractor.Extract(cvText, uc.topSkills)
	jdSkills := []string{}
	if jdText != "" {
		jdSkills = uc.extractor.Extract(jdText, uc.topSkills)
	}

	coverage, missing, matched := uc.scorer.Coverage(ctx, cvSkills, jdSkills, threshold)
	similarity := 0.0
	if jdText != "" {
		similarity = uc.scorer.Similarity(ctx, cvText, jdText)
	}
	coverage = clamp01(coverage)
	similarity = clamp01(similarity)

	result := model.MatchResult{
		CVSkills:          cvSkills,
		JDSkills:          jdSkills,
		Matched:           matched,
		Missing:           missing,
		Coverage:          coverage,
		Similarity:        similarity,
		Passed:            len(jdSkills) > 0 && coverage >= threshold,
		PredictedRole:     uc.roles.Predict(cvText),
		QualityWarnings:   uc.quality.Analyze(cvText, cvSkills),
		CourseSuggestions: uc.courses.Suggest(missing),
	}

	if uc.enrichment != nil {
		enriched, err := uc.enrichment.Analyze(ctx, cvText, jdText, cvSkills, jdSkills)
		if err != nil {
			// fail open: the deterministic result stands
			uc.logger.Debug("enrichment failed, keeping deterministic result", zap.Error(err))
		} else {
			applyEnrichment(&result, enriched, threshold)
		}
	}

	return result
}

// applyEnrichment overrides baseline fields with the enrichment payload,
// whole field at a time. Coverage and similarity are re-clamped after the
// override, and passed is recomputed only when the final requirement skill
// list is non-empty. Zero-valued numbers from the payload keep the baseline.
func applyEnrichment(result *model.MatchResult, enr *service.EnrichmentResult, threshold float64) {
	if len(enr.CVSkills) > 0 {
		result.CVSkills = enr.CVSkills
	}
	if len(enr.JDSkills) > 0 {
		result.JDSkills = enr.JDSkills
	}
	if len(enr.Matched) > 0 {
		result.Matched = enr.Matched
	}
	if len(enr.Missing) > 0 {
		result.Missing = enr.Missing
	}
	if enr.Coverage > 0 {
		result.Coverage = enr.Coverage
	}
	if enr.Similarity > 0 {
		result.Similarity = enr.Similarity
	}
	result.Coverage = clamp01(result.Coverage)
	result.Similarity = clamp01(result.Similarity)
	if enr.PredictedRole != "" {
		result.PredictedRole = enr.PredictedRole
	}
	if result.PredictedRole == "" {
		result.PredictedRole = "Unknown"
	}
	if len(enr.QualityWarnings) > 0 {
		result.QualityWarnings = enr.QualityWarnings
	}
	if len(enr.CourseSuggestions) > 0 {
		result.CourseSuggestions = enr.CourseSuggestions
	}
	if len(result.JDSkills) > 0 {
		result.Passed = result.Coverage >= threshold
	}
}

// ScoredJob pairs a job with its match outcome for the profile-match view.
type ScoredJob struct {
	Job       model.Job
	Match     model.MatchResult
	Score     float64
	MatchedAt time.Time
	Cached    bool
}

// MatchJobs scores every candidate job for the user's CV, cache-first: a hit
// on (user, job, content hash) reuses the stored analysis, a miss computes
// and appends one. Cache write failures abort the call; the caller must not
// believe a result was cached when it was not.
func (uc *MatchUsecase) MatchJobs(ctx context.Context, userID, cvText, cvSource, cvLabel string, limit int) ([]ScoredJob, error) {
	hash := util.ContentHash(cvText)
	jobs, err := uc.jobRepo.ListPublished()
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredJob, 0, len(jobs))
	for i := range jobs {
		job := jobs[i]

		rec, err := uc.matchRepo.GetLatest(userID, job.ID, hash)
		if err != nil {
			uc.logger.Warn("match cache lookup failed, rescoring", zap.Error(err))
		}
		if rec != nil {
			var match model.MatchResult
			if err := json.Unmarshal([]byte(rec.AnalysisJSON), &match); err != nil {
				uc.logger.Warn("cached analysis unreadable, rescoring",
					zap.String("record_id", rec.ID.String()), zap.Error(err))
			} else {
				scored = append(scored, ScoredJob{
					Job: job, Match: match, Score: rec.Score, MatchedAt: rec.CreatedAt, Cached: true,
				})
				continue
			}
		}

		match := uc.Analyze(ctx, cvText, &job)
		score := round4((match.Coverage + match.Similarity) / 2.0)
		payload, err := json.Marshal(match)
		if err != nil {
			uc.logger.Warn("analysis payload not serializable, caching empty analysis",
				zap.String("job_id", job.ID.String()), zap.Error(err))
		}
		record := &model.MatchRecord{
			UserID:       userID,
			JobID:        job.ID,
			CVHash:       hash,
			Score:        score,
			Coverage:     match.Coverage,
			Similarity:   match.Similarity,
			AnalysisJSON: string(payload),
			CVSource:     cvSource,
			CVLabel:      cvLabel,
		}
		if err := uc.matchRepo.Create(record); err != nil {
			return nil, err
		}
		scored = append(scored, ScoredJob{
			Job: job, Match: match, Score: score, MatchedAt: record.CreatedAt,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// SimilarJobs ranks published jobs by embedding distance to the CV text.
// Without a working embedding model it falls back to the newest published
// jobs, so the endpoint degrades rather than errors.
func (uc *MatchUsecase) SimilarJobs(ctx context.Context, cvText string, topK int) ([]model.Job, error) {
	if topK <= 0 {
		topK = 10
	}
	if strings.TrimSpace(cvText) != "" {
		vectors, err := uc.embeddings.Encode(ctx, []string{cvText})
		if err == nil && len(vectors) == 1 {
			jobs, err := uc.jobRepo.SearchNearest(pgvector.NewVector(vectors[0]), topK)
			if err == nil {
				return jobs, nil
			}
			uc.logger.Warn("vector job search failed, listing published jobs", zap.Error(err))
		}
	}
	jobs, err := uc.jobRepo.ListPublished()
	if err != nil {
		return nil, err
	}
	if len(jobs) > topK {
		jobs = jobs[:topK]
	}
	return jobs, nil
}

// HistoryItem is one entry of a user's match history joined with its job.
type HistoryItem struct {
	Job       model.Job
	Match     model.MatchResult
	Score     float64
	MatchedAt time.Time
	CVSource  string
	CVLabel   string
}

func (uc *MatchUsecase) History(userID string, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = uc.historyLimit
	}
	entries, err := uc.matchRepo.ListHistory(userID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]HistoryItem, 0, len(entries))
	for _, entry := range entries {
		var match model.MatchResult
		if err := json.Unmarshal([]byte(entry.Record.AnalysisJSON), &match); err != nil {
			uc.logger.Warn("history analysis unreadable",
				zap.String("record_id", entry.Record.ID.String()), zap.Error(err))
		}
		items = append(items, HistoryItem{
			Job:       entry.Job,
			Match:     match,
			Score:     entry.Record.Score,
			MatchedAt: entry.Record.CreatedAt,
			CVSource:  entry.Record.CVSource,
			CVLabel:   entry.Record.CVLabel,
		})
	}
	return items, nil
}

func (uc *MatchUsecase) ClearHistory(userID string) error {
	return uc.matchRepo.ClearByUser(userID)
}

// CreateJob stores a job, embedding its description up front so vector
// search can rank it later. Embedding failures are not fatal; the job is
// still created and lexical scoring covers it.
func (uc *MatchUsecase) CreateJob(ctx context.Context, job *model.Job) error {
	if strings.TrimSpace(job.JDText) != "" {
		vectors, err := uc.embeddings.Encode(ctx, []string{job.JDText})
		if err == nil && len(vectors) == 1 {
			job.Embedding = pgvector.NewVector(vectors[0])
		} else if err != nil {
			uc.logger.Debug("job embedding skipped", zap.Error(err))
		}
	}
	return uc.jobRepo.CreateJob(job)
}

func (uc *MatchUsecase) GetJob(id string) (*model.Job, error) {
	return uc.jobRepo.FindJobByID(id)
}

func (uc *MatchUsecase) ListJobs() ([]model.Job, error) {
	return uc.jobRepo.ListPublished()
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
