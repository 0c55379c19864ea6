package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"skill-assess/internal/delivery/http/dto"
	"skill-assess/internal/pkg/response"
	"skill-assess/internal/usecase"
)

type JobHandler struct {
	jobs        usecase.JobUsecase
	assessments usecase.JobAssessmentUsecase
	now         func() time.Time
}

func NewJobHandler(jobs usecase.JobUsecase, assessments usecase.JobAssessmentUsecase) *JobHandler {
	return &JobHandler{jobs: jobs, assessments: assessments, now: time.Now}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/jobs")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/assessment/questions", h.Questions)
	grp.Post("/:id/assessment", h.Analyze)
}

func (h *JobHandler) RegisterCompanyRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/jobs", guard, h.Create)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.jobs.Create(c.Context(), userID, usecase.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: dto.Requirements(req.RequiredSkills),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "job created", dto.NewJobResponse(p))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.jobs.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobHandler) List(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return badRequest(err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}

	items, err := h.jobs.List(c.Context(), usecase.JobListParams{Limit: limit, Offset: offset})
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.JobResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewJobResponse(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobHandler) Questions(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	set, err := h.assessments.GenerateQuestions(c.Context(), userID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobQuestionSetResponse{
		Questions:      set.Questions,
		SkillsToTest:   set.SkillsToTest,
		AlreadyProven:  set.AlreadyProven,
		RemainingQuota: set.RemainingQuota,
	})
}

func (h *JobHandler) Analyze(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	out, err := h.assessments.Analyze(c.Context(), userID, jobID, usecase.AnalyzeInput{Answers: req.Answers})
	if err != nil {
		return mapUsecaseError(err)
	}

	msg := "job assessment analyzed"
	if out.Degraded {
		msg = "job assessment could not be fully analyzed"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.AnalysisResponse{
		Analysis:       out.Analysis,
		Degraded:       out.Degraded,
		Reason:         string(out.Reason),
		Profile:        dto.NewProfileResponse(out.Profile, h.now()),
		RemainingQuota: out.RemainingQuota,
	})
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
