package handler

import (
	"context"
	"time"

	"job-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// NewHealthHandler takes the database and, when Redis backs the cache, the
// Redis client. A nil cache reports "memory".
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Database: "up", Cache: "memory"}
	status := fiber.StatusOK

	if h.db == nil {
		out.Database = "unconfigured"
		status = fiber.StatusServiceUnavailable
	} else if err := h.db.Ping(ctx); err != nil {
		out.Database = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out.Cache = "up"
		// Listings fall through to the database when Redis is away.
		if err := h.cache.Ping(ctx); err != nil {
			out.Cache = "degraded"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", out)
	}
	return response.OK(c, out)
}
