package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	ucuser "job-tracker/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Name              *string           `json:"name"`
	PictureURL        *string           `json:"picture_url"`
	YearsOfExperience *int              `json:"years_of_experience"`
	CurrentLocation   *string           `json:"current_location"`
	OpenToWorkTypes   []string          `json:"open_to_work_types"`
	Skills            []string          `json:"skills"`
	OpenToLocations   []string          `json:"open_to_locations"`
	SocialLinks       map[string]string `json:"social_links"`
}

type updateMeRequest struct {
	Username *string               `json:"username"`
	Email    *string               `json:"email"`
	Phone    *string               `json:"phone"`
	Password *string               `json:"password"`
	Profile  *updateProfileRequest `json:"profile"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Delete("/me", h.DeleteMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	usr, err := h.uc.GetMe(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	var req updateMeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	if req.Username == nil && req.Email == nil && req.Phone == nil && req.Password == nil && req.Profile == nil {
		return badRequest("Invalid request payload", nil)
	}

	in := ucuser.UpdateMeInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if p := req.Profile; p != nil {
		var workTypes []user.WorkType
		if p.OpenToWorkTypes != nil {
			workTypes = make([]user.WorkType, 0, len(p.OpenToWorkTypes))
			for _, raw := range p.OpenToWorkTypes {
				wt, err := user.ParseWorkType(raw)
				if err != nil {
					return badRequest(err.Error(), err)
				}
				workTypes = append(workTypes, wt)
			}
		}
		in.Profile = &ucuser.ProfileInput{
			Name:              p.Name,
			PictureURL:        p.PictureURL,
			YearsOfExperience: p.YearsOfExperience,
			CurrentLocation:   p.CurrentLocation,
			OpenToWorkTypes:   workTypes,
			Skills:            p.Skills,
			OpenToLocations:   p.OpenToLocations,
			SocialLinks:       p.SocialLinks,
		}
	}

	usr, err := h.uc.UpdateMe(c.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewUserResponse(usr))
}

func (h *UserHandler) DeleteMe(c fiber.Ctx) error {
	if err := h.uc.DeleteMe(c.Context(), middleware.IdentityFrom(c)); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "account deleted", nil)
}
