package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"skill-assess/internal/delivery/http/dto"
	"skill-assess/internal/pkg/response"
	"skill-assess/internal/usecase"
)

const defaultHistoryLimit = 20

type AssessmentHandler struct {
	uc  usecase.AssessmentUsecase
	now func() time.Time
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc, now: time.Now}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/assessments")
	grp.Post("/questions", h.Questions)
	grp.Post("/", h.Analyze)
	grp.Get("/", h.History)
}

func (h *AssessmentHandler) Questions(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.SkillQuestionsRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	set, err := h.uc.GenerateQuestions(c.Context(), userID, dto.SkillTargets(req.Skills))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.QuestionSetResponse{
		Questions:      set.Questions,
		RemainingQuota: set.RemainingQuota,
	})
}

// Analyze grades the submitted answers. A degraded result is still a 200:
// the body says so and nothing on the profile changed.
func (h *AssessmentHandler) Analyze(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	out, err := h.uc.Analyze(c.Context(), userID, usecase.AnalyzeInput{Answers: req.Answers})
	if err != nil {
		return mapUsecaseError(err)
	}

	msg := "assessment analyzed"
	if out.Degraded {
		msg = "assessment could not be fully analyzed"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.AnalysisResponse{
		Analysis:       out.Analysis,
		Degraded:       out.Degraded,
		Reason:         string(out.Reason),
		Profile:        dto.NewProfileResponse(out.Profile, h.now()),
		RemainingQuota: out.RemainingQuota,
	})
}

func (h *AssessmentHandler) History(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			return badRequest(err)
		}
		limit = n
	}

	recs, err := h.uc.History(c.Context(), userID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.AssessmentRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.NewAssessmentRecordResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
