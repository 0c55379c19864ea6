package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/pkg/response"
)

// AppError is what handlers return to pick the response status. Message and
// Data reach the client unless the status is 500; Cause is only logged.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	log *zap.Logger
}

func NewErrorMiddleware(log *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{log: logger.OrNop(log)}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("panic recovered",
					m.requestFields(c, zap.Error(fmt.Errorf("%v", r)), zap.Stack("stack"))...,
				)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		out := resolve(err)
		if out.status >= 500 {
			m.log.Error("request failed", m.requestFields(c, zap.Int("status", out.status), zap.Error(err))...)
		} else {
			m.log.Debug("request rejected", m.requestFields(c, zap.Int("status", out.status), zap.Error(err))...)
		}
		return response.Error(c, out.status, out.message, out.data)
	}
}

func (m *ErrorMiddleware) requestFields(c fiber.Ctx, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{zap.String("path", c.OriginalURL())}
	if rid, ok := c.Locals(response.RequestIDLocal).(string); ok {
		fields = append(fields, zap.String("rid", rid))
	}
	return append(fields, extra...)
}

type resolved struct {
	status  int
	message string
	data    any
}

var internalError = resolved{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}

func resolve(err error) resolved {
	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		if appErr.StatusCode <= 0 || appErr.StatusCode == fiber.StatusInternalServerError {
			return internalError
		}
		return resolved{status: appErr.StatusCode, message: orDefault(appErr.Message, appErr.StatusCode), data: appErr.Data}
	case errors.As(err, &fiberErr):
		if fiberErr.Code <= 0 || fiberErr.Code >= 500 {
			return internalError
		}
		return resolved{status: fiberErr.Code, message: orDefault(fiberErr.Message, fiberErr.Code)}
	case errors.Is(err, context.DeadlineExceeded):
		return resolved{status: fiber.StatusGatewayTimeout, message: response.DefaultMessage(fiber.StatusGatewayTimeout)}
	}
	return internalError
}

func orDefault(msg string, status int) string {
	if msg == "" {
		return response.DefaultMessage(status)
	}
	return msg
}
