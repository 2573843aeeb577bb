package v1

import (
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Jobs        *handler.JobsHandler
	Tracking    *handler.TrackingHandler
	Stats       *handler.StatsHandler
	Preferences *handler.PreferencesHandler
	WS          *ws.Handler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	if h.Health != nil {
		h.Health.RegisterRoutes(r)
	}
	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	RegisterJobs(r.Group("/jobs"), h.Jobs, h.Tracking, authMw)

	if h.Stats != nil {
		r.Get("/stats/platform", h.Stats.HandlePlatform)
		r.Get("/stats/me", authMw.Middleware(), h.Stats.HandleMe)
	}

	if h.Preferences != nil {
		r.Get("/companies", h.Preferences.HandleListCompanies)

		prefs := r.Group("/preferences", authMw.Middleware())
		prefs.Get("/companies", h.Preferences.HandleGetCompanies)
		prefs.Put("/companies", h.Preferences.HandleSetCompanies)
		prefs.Get("/job", h.Preferences.HandleGetJobPreferences)
		prefs.Put("/job", h.Preferences.HandleSaveJobPreferences)
	}

	if h.User != nil {
		h.User.RegisterRoutes(r.Group("/users", authMw.Middleware()))
	}

	if h.WS != nil {
		r.Get("/ws", h.WS.HandleOverlayWS)
	}
}
