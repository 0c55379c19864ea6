package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"skill-assess/internal/domain/user"
	"skill-assess/internal/pkg/jwt"
)

func newJWT() *jwt.HMACService {
	return jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func whoAmI(c fiber.Ctx) error {
	id, _ := c.Locals(CtxUserIDKey).(uuid.UUID)
	role, _ := c.Locals(CtxRoleKey).(user.Role)
	return c.SendString(id.String() + "/" + string(role))
}

func TestAuthMiddleware(t *testing.T) {
	svc := newJWT()
	userID := uuid.New()
	pair, err := svc.IssuePair(userID, "a@b.c", "company")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	access, refresh := pair.AccessToken, pair.RefreshToken

	auth := NewAuthMiddleware(svc)
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/me", auth.Middleware(), whoAmI)
	app.Get("/ws", auth.QueryMiddleware(), whoAmI)

	cases := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"bearer", "/me", "Bearer " + access, http.StatusOK},
		{"missing", "/me", "", http.StatusUnauthorized},
		{"refresh token rejected", "/me", "Bearer " + refresh, http.StatusUnauthorized},
		{"query not accepted on api", "/me?token=" + access, "", http.StatusUnauthorized},
		{"query accepted on ws", "/ws?token=" + access, "", http.StatusOK},
		{"garbage", "/ws?token=nope", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.name, tc.status, resp.StatusCode, body)
		}
		if tc.status == http.StatusOK && string(body) != userID.String()+"/company" {
			t.Fatalf("%s: unexpected locals %q", tc.name, body)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("  bearer abc "); !ok || tok != "abc" {
		t.Fatalf("expected abc, got %q %v", tok, ok)
	}
	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		if _, ok := BearerToken(h); ok {
			t.Fatalf("expected %q rejected", h)
		}
	}
}

func TestErrorMiddleware_RecoversAndLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New()
	app.Use(NewErrorMiddleware(zap.New(core)).Middleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("kaboom") })
	app.Get("/limited", func(fiber.Ctx) error { return NewAppError(http.StatusTooManyRequests, "", nil, nil) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected panic to be logged, got %v", logs.All())
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusTooManyRequests || !strings.Contains(string(body), `"message":"too many requests"`) {
		t.Fatalf("expected 429 with default message, got %d %s", resp.StatusCode, body)
	}
}

func TestAccessLog_SetsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zap.New(core)).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.Header.Get(HeaderRequestID) != "rid-1" {
		t.Fatalf("expected request id echoed, got %q", resp.Header.Get(HeaderRequestID))
	}
	entries := logs.FilterMessage("http access").All()
	if len(entries) != 1 || entries[0].ContextMap()["rid"] != "rid-1" || entries[0].ContextMap()["status"] != int64(200) {
		t.Fatalf("unexpected access log %v", entries)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"app error", NewAppError(http.StatusConflict, "busy", nil, nil), http.StatusConflict, "busy"},
		{"500 hides message", NewAppError(http.StatusInternalServerError, "db password wrong", nil, nil), http.StatusInternalServerError, "internal server error"},
		{"503 keeps message", NewAppError(http.StatusServiceUnavailable, "oracle down", nil, nil), http.StatusServiceUnavailable, "oracle down"},
		{"fiber error", fiber.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"deadline", fmt.Errorf("oracle: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "gateway timeout"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		got := resolve(tc.err)
		if got.status != tc.status || got.message != tc.message {
			t.Fatalf("%s: expected %d %q, got %d %q", tc.name, tc.status, tc.message, got.status, got.message)
		}
	}
}
