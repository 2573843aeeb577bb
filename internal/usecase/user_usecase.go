package usecase

import (
	"context"
	"errors"
	"fmt"

	"job-tracker/internal/domain/user"
	ucauth "job-tracker/internal/usecase/auth"
	ucuser "job-tracker/internal/usecase/user"

	"go.uber.org/zap"
)

type UserUsecase interface {
	GetMe(ctx context.Context, ident *user.Identity) (user.User, error)
	UpdateMe(ctx context.Context, ident *user.Identity, in ucuser.UpdateMeInput) (user.User, error)
	DeleteMe(ctx context.Context, ident *user.Identity) error
}

type User struct {
	svc *ucuser.Service
	log *zap.Logger
}

func NewUserUsecase(users user.Repository, log *zap.Logger) *User {
	if log == nil {
		log = zap.NewNop()
	}
	return &User{svc: ucuser.NewService(users), log: log.Named("users")}
}

func (u *User) GetMe(ctx context.Context, ident *user.Identity) (user.User, error) {
	if ident == nil {
		return user.User{}, ErrUnauthorized
	}
	usr, err := u.svc.GetMe(ctx, ident.UserID)
	return usr, mapUserError(err)
}

func (u *User) UpdateMe(ctx context.Context, ident *user.Identity, in ucuser.UpdateMeInput) (user.User, error) {
	if ident == nil {
		return user.User{}, ErrUnauthorized
	}
	usr, err := u.svc.UpdateMe(ctx, ident.UserID, in)
	return usr, mapUserError(err)
}

// DeleteMe removes the account; saved, applied and preference rows go with it.
func (u *User) DeleteMe(ctx context.Context, ident *user.Identity) error {
	if ident == nil {
		return ErrUnauthorized
	}
	if err := u.svc.DeleteMe(ctx, ident.UserID); err != nil {
		return mapUserError(err)
	}
	u.log.Info("account deleted", zap.Int64("user_id", ident.UserID))
	return nil
}

func mapUserError(err error) error {
	if err == nil {
		return nil
	}
	var ie *ucauth.InputError
	switch {
	case errors.As(err, &ie):
		return invalidInput("%s", ie.Reason)
	case errors.Is(err, ucuser.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, ucuser.ErrConflict):
		return fmt.Errorf("%v: %w", err, ErrConflict)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
