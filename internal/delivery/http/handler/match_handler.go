package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-assess/internal/delivery/http/dto"
	"skill-assess/internal/pkg/response"
	"skill-assess/internal/usecase"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRoutes mounts the candidate's own score against a job.
func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/:id/matches/me", h.Mine)
}

// RegisterCompanyRoutes mounts the ranking views.
func (h *MatchHandler) RegisterCompanyRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("/jobs/:id/matches", guard, h.ForJob)
	r.Get("/me/matches", guard, h.ForCompany)
}

func (h *MatchHandler) ForJob(c fiber.Ctx) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	results, err := h.uc.RankForJob(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRankingResponse(&jobID, results))
}

func (h *MatchHandler) ForCompany(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	results, err := h.uc.RankForCompany(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRankingResponse(nil, results))
}

func (h *MatchHandler) Mine(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.uc.ScoreForCandidate(c.Context(), jobID, userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
