package handler

import (
	"errors"

	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// mapUsecaseError turns usecase category errors into HTTP errors. The
// message of 4xx errors is the usecase error text; 5xx causes stay hidden.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, unauthorizedMessage(err), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return "Refresh token expired"
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return "Invalid refresh token"
	default:
		return "Unauthorized"
	}
}

func badRequest(msg string, cause error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, cause)
}
