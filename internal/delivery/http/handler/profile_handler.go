package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"skill-assess/internal/delivery/http/dto"
	"skill-assess/internal/pkg/response"
	"skill-assess/internal/usecase"
)

type ProfileHandler struct {
	uc  usecase.ProfileUsecase
	now func() time.Time
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc, now: time.Now}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me/profile", h.Get)
	r.Post("/me/profile/onboarding", h.Onboard)
}

// RegisterCompanyRoutes mounts the routes only company accounts may call,
// each behind guard.
func (h *ProfileHandler) RegisterCompanyRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}
	r.Put("/me/required-skills", guard, h.SetRequiredSkills)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p, h.now()))
}

func (h *ProfileHandler) Onboard(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.OnboardingRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.uc.Onboard(c.Context(), userID, usecase.OnboardInput{Skills: req.Skills, Aggregate: req.AggregateScore})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "onboarding saved", dto.NewProfileResponse(p, h.now()))
}

func (h *ProfileHandler) SetRequiredSkills(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.RequiredSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.uc.SetRequiredSkills(c.Context(), userID, dto.Requirements(req.RequiredSkills))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "required skills updated", dto.NewProfileResponse(p, h.now()))
}
