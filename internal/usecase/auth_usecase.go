package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	ucauth "job-tracker/internal/usecase/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	ErrRefreshTokenExpired = fmt.Errorf("refresh token expired: %w", ErrUnauthorized)
	ErrAccountExists       = fmt.Errorf("username, email or phone already registered: %w", ErrConflict)
)

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(accessToken string) (user.Identity, error)
}

type Auth struct {
	authSvc    *ucauth.Service
	users      user.Repository
	tokens     user.RefreshTokenRepository
	jwt        jwt.Service
	refreshTTL time.Duration
	log        *zap.Logger

	now func() time.Time
}

func NewAuthUsecase(users user.Repository, tokens user.RefreshTokenRepository, jwtSvc jwt.Service, refreshTTL time.Duration, log *zap.Logger) *Auth {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{
		authSvc:    ucauth.NewService(users),
		users:      users,
		tokens:     tokens,
		jwt:        jwtSvc,
		refreshTTL: refreshTTL,
		log:        log.Named("auth"),
		now:        time.Now,
	}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, mapAuthError(err)
	}
	u.log.Info("user registered", zap.Int64("user_id", usr.ID), zap.String("username", usr.Username))

	pair, err := u.issue(ctx, usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, pair, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, mapAuthError(err)
	}
	pair, err := u.issue(ctx, usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, pair, nil
}

// Refresh consumes the presented token and hands out a new pair. A token
// can be used once; replaying it fails.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	stored, err := u.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, user.ErrRefreshTokenNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, wrapInternal("find refresh token", err)
	}
	if !u.now().Before(stored.ExpiresAt) {
		if err := u.tokens.Delete(ctx, refreshToken); err != nil {
			u.log.Warn("delete expired refresh token failed", zap.Error(err))
		}
		return TokenPair{}, ErrRefreshTokenExpired
	}

	usr, err := u.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, wrapInternal("load user", err)
	}

	access, accessExp, err := u.jwt.GenerateAccessToken(usr.ID, usr.Username, string(usr.Role))
	if err != nil {
		return TokenPair{}, wrapInternal("sign access token", err)
	}
	next := u.newRefreshToken(usr.ID)
	if err := u.tokens.Rotate(ctx, refreshToken, next); err != nil {
		if errors.Is(err, user.ErrRefreshTokenNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, wrapInternal("rotate refresh token", err)
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     next.Token,
		RefreshExpiresAt: next.ExpiresAt,
	}, nil
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (u *Auth) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	if err := u.tokens.Delete(ctx, refreshToken); err != nil {
		return wrapInternal("revoke refresh token", err)
	}
	return nil
}

// Authenticate turns a bearer access token into the caller identity.
func (u *Auth) Authenticate(accessToken string) (user.Identity, error) {
	c, err := u.jwt.ValidateToken(accessToken)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user.Identity{UserID: c.UserID, Username: c.Username, Role: user.Role(c.Role)}, nil
}

func (u *Auth) issue(ctx context.Context, usr user.User) (TokenPair, error) {
	access, accessExp, err := u.jwt.GenerateAccessToken(usr.ID, usr.Username, string(usr.Role))
	if err != nil {
		return TokenPair{}, wrapInternal("sign access token", err)
	}
	rt := u.newRefreshToken(usr.ID)
	if err := u.tokens.Create(ctx, rt); err != nil {
		return TokenPair{}, wrapInternal("store refresh token", err)
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     rt.Token,
		RefreshExpiresAt: rt.ExpiresAt,
	}, nil
}

func (u *Auth) newRefreshToken(userID int64) user.RefreshToken {
	now := u.now().UTC()
	return user.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(u.refreshTTL),
		CreatedAt: now,
	}
}

func mapAuthError(err error) error {
	var ie *ucauth.InputError
	switch {
	case errors.As(err, &ie):
		return invalidInput("%s", ie.Reason)
	case errors.Is(err, ucauth.ErrAccountExists):
		return ErrAccountExists
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, ucauth.ErrAccountDisabled):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
