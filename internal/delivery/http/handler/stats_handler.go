package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatsHandler struct {
	uc usecase.StatsUsecase
}

func NewStatsHandler(uc usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// HandlePlatform aggregates over ?families= (comma separated), all when empty.
func (h *StatsHandler) HandlePlatform(c fiber.Ctx) error {
	families, err := familiesQuery(c)
	if err != nil {
		return err
	}
	s, err := h.uc.PlatformStats(c.Context(), families)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewPlatformStatsResponse(s))
}

func (h *StatsHandler) HandleMe(c fiber.Ctx) error {
	s, err := h.uc.UserStats(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewUserStatsResponse(s))
}
