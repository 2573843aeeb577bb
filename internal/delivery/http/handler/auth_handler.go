package handler

import (
	"strings"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	// LoginIdentifier is a username, email or phone number.
	LoginIdentifier string `json:"login_identifier"`
	Password        string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	usr, pair, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "registered", dto.NewAuthResponse(&usr, pair))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	usr, pair, err := h.uc.Login(c.Context(), ucauth.LoginInput{Identifier: req.LoginIdentifier, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewAuthResponse(&usr, pair))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, err := refreshTokenFrom(c)
	if err != nil {
		return err
	}
	pair, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewAuthResponse(nil, pair))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	tok, err := refreshTokenFrom(c)
	if err != nil {
		return err
	}
	if err := h.uc.Logout(c.Context(), tok); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "logged out", nil)
}

func refreshTokenFrom(c fiber.Ctx) (string, error) {
	var req refreshRequest
	if err := c.Bind().Body(&req); err != nil {
		return "", badRequest("Bad request", err)
	}
	tok := strings.TrimSpace(req.RefreshToken)
	if tok == "" {
		return "", badRequest("refresh_token is required", nil)
	}
	return tok, nil
}
