package response

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
	MessageServiceUnavailable  = "service unavailable"
)

// RequestIDLocal is the fiber local holding the id the access log assigned.
const RequestIDLocal = "request_id"

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}
	rid, _ := c.Locals(RequestIDLocal).(string)
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data, RequestID: rid})
}

// DefaultMessage is the lowercased status text, or "error" for codes
// net/http does not name.
func DefaultMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return "error"
}
