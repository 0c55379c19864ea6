package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skill-assess/internal/delivery/http/middleware"
	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/matching"
	"skill-assess/internal/pkg/response"
	"skill-assess/internal/usecase"
	ucauth "skill-assess/internal/usecase/auth"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

func pathID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

// mapUsecaseError turns use-case sentinels into HTTP errors. Order matters:
// quota and invariant errors can be wrapped together with ErrInvalidInput.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, assessment.ErrQuotaExceeded):
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Monthly assessment quota exceeded", nil, err)
	case errors.Is(err, matching.ErrInvariantViolation):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No required skills to match against", nil, err)
	case errors.Is(err, usecase.ErrAssessmentInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment already in progress", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrOracleUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Assessment service unavailable", nil, err)
	case errors.Is(err, usecase.ErrMalformedResponse):
		return middleware.NewAppError(fiber.StatusBadGateway, "Assessment service returned an unreadable response", nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, nil)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
