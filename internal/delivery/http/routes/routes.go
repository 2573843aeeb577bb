package routes

import (
	"job-tracker/internal/delivery/http/middleware"
	v1 "job-tracker/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	handlers v1.Handlers
	authMw   *middleware.AuthMiddleware
}

func NewRegistry(handlers v1.Handlers, authMw *middleware.AuthMiddleware) *Registry {
	return &Registry{handlers: handlers, authMw: authMw}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.handlers, r.authMw)
}
