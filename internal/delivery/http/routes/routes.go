package routes

import (
	"github.com/gofiber/fiber/v3"

	"skill-assess/internal/delivery/http/handler"
	"skill-assess/internal/delivery/http/middleware"
	"skill-assess/internal/domain/user"
	"skill-assess/internal/ws"
)

type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Profile    *handler.ProfileHandler
	Assessment *handler.AssessmentHandler
	Job        *handler.JobHandler
	Match      *handler.MatchHandler
	Todo       *handler.TodoHandler
	WS         *ws.Handler
}

type Registry struct {
	h    Handlers
	auth *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.h.Health.RegisterRoutes(app)
	if r.h.WS != nil {
		app.Get("/ws", r.auth.QueryMiddleware(), r.h.WS.HandleProfileWS(middleware.CtxUserIDKey))
	}
	r.registerV1(app.Group("/api/v1"))
}

func (r *Registry) registerV1(api fiber.Router) {
	r.h.Auth.RegisterRoutes(api.Group("/auth"))

	protected := api.Group("", r.auth.Middleware())
	company := middleware.RequireRole(user.RoleCompany)

	r.h.Profile.RegisterRoutes(protected)
	r.h.Profile.RegisterCompanyRoutes(protected, company)
	r.h.Assessment.RegisterRoutes(protected)
	r.h.Job.RegisterCompanyRoutes(protected, company)
	r.h.Job.RegisterRoutes(protected)
	r.h.Match.RegisterCompanyRoutes(protected, company)
	r.h.Match.RegisterRoutes(protected)
	r.h.Todo.RegisterRoutes(protected)
}
