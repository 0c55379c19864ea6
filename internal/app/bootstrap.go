package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"skill-assess/internal/config"
	"skill-assess/internal/delivery/http/handler"
	"skill-assess/internal/delivery/http/middleware"
	"skill-assess/internal/delivery/http/routes"
	"skill-assess/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the Fiber app over an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Log)

	checks := map[string]handler.Pinger{"postgres": c.DB}
	if c.Cache.Available() {
		checks["redis"] = c.Cache
	}

	h := routes.Handlers{
		Health:     handler.NewHealthHandler(checks),
		Auth:       handler.NewAuthHandler(c.Auth),
		Profile:    handler.NewProfileHandler(c.Profiles),
		Assessment: handler.NewAssessmentHandler(c.Assessments),
		Job:        handler.NewJobHandler(c.Jobs, c.JobAssessments),
		Match:      handler.NewMatchHandler(c.Matching),
		Todo:       handler.NewTodoHandler(c.Todos),
		WS:         ws.NewHandler(c.Hub, c.Log.Named("ws")),
	}
	routes.NewRegistry(h, middleware.NewAuthMiddleware(c.JWT)).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
