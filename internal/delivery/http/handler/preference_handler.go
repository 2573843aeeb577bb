package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/preference"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type PreferencesHandler struct {
	uc usecase.PreferencesUsecase
}

type preferredCompaniesRequest struct {
	Companies []string `json:"companies"`
}

type jobPreferencesRequest struct {
	JobTitles    []string `json:"job_titles"`
	Skills       []string `json:"skills"`
	RoleTypes    []string `json:"role_types"`
	EmailEnabled *bool    `json:"email_enabled"`
}

func NewPreferencesHandler(uc usecase.PreferencesUsecase) *PreferencesHandler {
	return &PreferencesHandler{uc: uc}
}

func (h *PreferencesHandler) HandleGetCompanies(c fiber.Ctx) error {
	names, err := h.uc.GetPreferredCompanies(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.PreferredCompaniesResponse{Companies: nonNilStrings(names)})
}

func (h *PreferencesHandler) HandleSetCompanies(c fiber.Ctx) error {
	var req preferredCompaniesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	names, err := h.uc.SetPreferredCompanies(c.Context(), middleware.IdentityFrom(c), req.Companies)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.PreferredCompaniesResponse{Companies: nonNilStrings(names)})
}

func (h *PreferencesHandler) HandleGetJobPreferences(c fiber.Ctx) error {
	p, err := h.uc.GetJobPreferences(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPreferencesResponse(p))
}

func (h *PreferencesHandler) HandleSaveJobPreferences(c fiber.Ctx) error {
	var req jobPreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	p, err := h.uc.SaveJobPreferences(c.Context(), middleware.IdentityFrom(c), preference.Update{
		JobTitles:    req.JobTitles,
		Skills:       req.Skills,
		RoleTypes:    req.RoleTypes,
		EmailEnabled: req.EmailEnabled,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPreferencesResponse(p))
}

// HandleListCompanies serves the registry; it is public.
func (h *PreferencesHandler) HandleListCompanies(c fiber.Ctx) error {
	return response.OK(c, nonNilStrings(h.uc.ListCompanies()))
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
