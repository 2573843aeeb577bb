package handler

import (
	"strings"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TrackingHandler struct {
	uc usecase.TrackingUsecase
}

type statusRequest struct {
	Status string `json:"status"`
}

func NewTrackingHandler(uc usecase.TrackingUsecase) *TrackingHandler {
	return &TrackingHandler{uc: uc}
}

func (h *TrackingHandler) HandleSave(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	saved, err := h.uc.SaveJob(c.Context(), middleware.IdentityFrom(c), ref)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "job saved", dto.NewSavedJobResponse(saved))
}

func (h *TrackingHandler) HandleUnsave(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	if err := h.uc.UnsaveJob(c.Context(), middleware.IdentityFrom(c), ref); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "job unsaved", nil)
}

func (h *TrackingHandler) HandleIsSaved(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	ok, err := h.uc.IsSaved(c.Context(), middleware.IdentityFrom(c), ref)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.IsSavedResponse{Family: string(ref.Family), JobID: ref.ID, IsSaved: ok})
}

func (h *TrackingHandler) HandleListSaved(c fiber.Ctx) error {
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.uc.ListSavedJobs(c.Context(), middleware.IdentityFrom(c), pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}

// HandleApply accepts an optional {"status": ...} body; no body means APPLIED.
func (h *TrackingHandler) HandleApply(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	status := tracking.StatusApplied
	if len(c.Body()) > 0 {
		st, err := bindStatus(c, false)
		if err != nil {
			return err
		}
		if st != "" {
			status = st
		}
	}

	state, err := h.uc.ApplyToJob(c.Context(), middleware.IdentityFrom(c), ref, status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "application recorded", dto.NewApplicationStatusResponse(ref, state))
}

func (h *TrackingHandler) HandleUpdateStatus(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	status, err := bindStatus(c, true)
	if err != nil {
		return err
	}
	state, err := h.uc.UpsertApplicationStatus(c.Context(), middleware.IdentityFrom(c), ref, status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewApplicationStatusResponse(ref, state))
}

func (h *TrackingHandler) HandleWithdraw(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	if err := h.uc.WithdrawApplication(c.Context(), middleware.IdentityFrom(c), ref); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "application withdrawn", nil)
}

func (h *TrackingHandler) HandleGetStatus(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	state, err := h.uc.GetApplicationStatus(c.Context(), middleware.IdentityFrom(c), ref)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewApplicationStatusResponse(ref, state))
}

func (h *TrackingHandler) HandleListApplied(c fiber.Ctx) error {
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}
	statuses, err := usecase.ParseStatusFilter(c.Query("statuses"))
	if err != nil {
		return mapUsecaseError(err)
	}
	page, err := h.uc.ListAppliedJobs(c.Context(), middleware.IdentityFrom(c), statuses, pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}

func bindStatus(c fiber.Ctx, required bool) (tracking.Status, error) {
	var req statusRequest
	if err := c.Bind().Body(&req); err != nil {
		return "", badRequest("Bad request", err)
	}
	raw := strings.TrimSpace(req.Status)
	if raw == "" {
		if required {
			return "", badRequest("status is required", nil)
		}
		return "", nil
	}
	st, err := tracking.ParseStatus(raw)
	if err != nil {
		return "", badRequest(err.Error(), err)
	}
	return st, nil
}
