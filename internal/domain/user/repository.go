package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateLogin = errors.New("username, email or phone already in use")
)

type Repository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	// GetUserByLogin matches the identifier against username, email and phone.
	GetUserByLogin(ctx context.Context, identifier string) (User, error)
	ExistsByLogin(ctx context.Context, username string, email, phone *string) (bool, error)
	UpdateUser(ctx context.Context, u User) error
	UpsertProfile(ctx context.Context, userID int64, p Profile) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	DeleteUser(ctx context.Context, id int64) error
}

type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(ctx context.Context, t RefreshToken) error
	FindByToken(ctx context.Context, token string) (RefreshToken, error)
	// Rotate deletes the old token and stores the new one atomically.
	Rotate(ctx context.Context, oldToken string, next RefreshToken) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
