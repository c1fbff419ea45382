package handler

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thanhng/cv-match/internal/dto"
	"github.com/thanhng/cv-match/internal/middleware"
	"github.com/thanhng/cv-match/internal/model"
	"github.com/thanhng/cv-match/internal/usecase"
	"github.com/thanhng/cv-match/internal/util"
)

// MatchHandler is thin transport plumbing over the match usecase. User
// identity arrives in the X-User-ID header; authentication itself is the
// caller's problem.
type MatchHandler struct {
	uc *usecase.MatchUsecase
}

func NewMatchHandler(uc *usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/analyze", middleware.RateLimiter(10, 1*time.Minute), h.Analyze)
	app.Post("/profile-match", middleware.RateLimiter(5, 1*time.Minute), h.ProfileMatch)
	app.Get("/profile-match/history", h.History)
	app.Delete("/profile-match/history", h.ClearHistory)
	app.Post("/jobs", h.CreateJob)
	app.Get("/jobs", h.ListJobs)
	app.Get("/jobs/similar", h.SimilarJobs)
	app.Get("/jobs/:id", h.GetJob)
}

type analyzeRequest struct {
	CVText string `json:"cv_text"`
	JobID  string `json:"job_id"`
}

func (h *MatchHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	var job *model.Job
	if req.JobID != "" {
		found, err := h.uc.GetJob(req.JobID)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "job not found",
			}, err)
		}
		job = found
	}

	result := h.uc.Analyze(c.UserContext(), req.CVText, job)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success analyze CV",
		Data:    result,
	})
}

type profileMatchRequest struct {
	CVText  string `json:"cv_text"`
	CVLabel string `json:"cv_label"`
	Limit   int    `json:"limit"`
}

func (h *MatchHandler) ProfileMatch(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Get("X-User-ID"))
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "X-User-ID header is required",
		})
	}

	var req profileMatchRequest
	cvSource := "inline"
	if file, err := c.FormFile("cv"); err == nil {
		text, err := h.extractUpload(c, file.Filename)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "failed to extract CV text",
			}, err)
		}
		req.CVText = text
		req.CVLabel = file.Filename
		req.Limit, _ = strconv.Atoi(c.FormValue("limit"))
		cvSource = "uploaded"
	} else if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	if strings.TrimSpace(req.CVText) == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cv_text or cv file is required",
		})
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	scored, err := h.uc.MatchJobs(c.UserContext(), userID, req.CVText, cvSource, req.CVLabel, req.Limit)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to match jobs",
		}, err)
	}

	data := make([]dto.ScoredJobDTO, 0, len(scored))
	for _, s := range scored {
		data = append(data, dto.ScoredJobDTO{
			Job:       dto.NewJobSummaryDTO(s.Job),
			Match:     s.Match,
			Score:     s.Score,
			MatchedAt: s.MatchedAt,
			Cached:    s.Cached,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success match jobs",
		Data:    data,
	})
}

// extractUpload saves the multipart CV and converts it to plaintext.
func (h *MatchHandler) extractUpload(c *fiber.Ctx, filename string) (string, error) {
	file, err := c.FormFile("cv")
	if err != nil {
		return "", err
	}
	if file.Size > 5*1024*1024 {
		return "", fiber.NewError(fiber.StatusBadRequest, "cv file is too large (max 5MB)")
	}
	savePath := filepath.Join(os.TempDir(), filepath.Base(filename))
	if err := c.SaveFile(file, savePath); err != nil {
		return "", err
	}
	defer os.Remove(savePath)

	raw, err := os.ReadFile(savePath)
	if err != nil {
		return "", err
	}
	return util.ExtractUploadText(savePath, filename, raw)
}

func (h *MatchHandler) History(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Get("X-User-ID"))
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "X-User-ID header is required",
		})
	}
	limit := c.QueryInt("limit", 0)

	items, err := h.uc.History(userID, limit)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list match history",
		}, err)
	}

	data := make([]dto.HistoryItemDTO, 0, len(items))
	for _, item := range items {
		data = append(data, dto.HistoryItemDTO{
			Job:       dto.NewJobSummaryDTO(item.Job),
			Match:     item.Match,
			Score:     item.Score,
			MatchedAt: item.MatchedAt,
			CVSource:  item.CVSource,
			CVLabel:   item.CVLabel,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get match history",
		Data:    data,
	})
}

func (h *MatchHandler) ClearHistory(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Get("X-User-ID"))
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "X-User-ID header is required",
		})
	}
	if err := h.uc.ClearHistory(userID); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to clear match history",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success clear match history",
	})
}

type createJobRequest struct {
	Title             string  `json:"title"`
	CompanyName       string  `json:"company_name"`
	JDText            string  `json:"jd_text"`
	CoverageThreshold float64 `json:"coverage_threshold"`
	Published         bool    `json:"published"`
}

func (h *MatchHandler) CreateJob(c *fiber.Ctx) error {
	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if strings.TrimSpace(req.Title) == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "title is required",
		})
	}

	job := &model.Job{
		Title:             req.Title,
		CompanyName:       req.CompanyName,
		JDText:            req.JDText,
		CoverageThreshold: req.CoverageThreshold,
		Status:            "open",
		Published:         req.Published,
	}
	if err := h.uc.CreateJob(c.UserContext(), job); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create job",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create job",
		Data:    dto.NewJobSummaryDTO(*job),
	})
}

func (h *MatchHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.uc.ListJobs()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list jobs",
		}, err)
	}
	data := make([]dto.JobSummaryDTO, 0, len(jobs))
	for _, job := range jobs {
		data = append(data, dto.NewJobSummaryDTO(job))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list jobs",
		Data:    data,
	})
}

func (h *MatchHandler) SimilarJobs(c *fiber.Ctx) error {
	cvText := c.Query("cv_text")
	topK := c.QueryInt("top_k", 10)
	jobs, err := h.uc.SimilarJobs(c.UserContext(), cvText, topK)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to search jobs",
		}, err)
	}
	data := make([]dto.JobSummaryDTO, 0, len(jobs))
	for _, job := range jobs {
		data = append(data, dto.NewJobSummaryDTO(job))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search jobs",
		Data:    data,
	})
}

func (h *MatchHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.uc.GetJob(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    dto.NewJobSummaryDTO(*job),
	})
}
