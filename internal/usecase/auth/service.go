package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"job-tracker/internal/domain/user"
)

var (
	ErrAccountExists      = errors.New("username, email or phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled or locked")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// InputError names the field rule a request broke.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

type LoginInput struct {
	// Identifier is a username, email or phone number.
	Identifier string
	Password   string
}

type Service struct {
	users user.Repository
	now   func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := ValidateUsername(username); err != nil {
		return user.User{}, err
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return user.User{}, err
	}
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return user.User{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return user.User{}, err
	}

	exists, err := s.users.ExistsByLogin(ctx, username, email, phone)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrAccountExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Username:       username,
		Email:          email,
		Phone:          phone,
		PasswordHash:   &hash,
		AccountEnabled: true,
		Role:           user.RoleUser,
		AuthProvider:   user.ProviderLocal,
	})
	if err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, user.ErrDuplicateLogin) {
			return user.User{}, ErrAccountExists
		}
		return user.User{}, ErrInternal
	}
	return Sanitize(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}
	if u.PasswordHash == nil {
		return user.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if !u.AccountEnabled || u.AccountLocked {
		return user.User{}, ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		return user.User{}, ErrInternal
	}
	u.LastLoginAt = &now
	return Sanitize(u), nil
}

func ValidateUsername(username string) error {
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return invalid("username must be %d to %d characters", minUsernameLen, maxUsernameLen)
	}
	return nil
}

func ValidatePassword(pw string) error {
	if len(strings.TrimSpace(pw)) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// NormalizeEmail returns nil for an empty value.
func NormalizeEmail(email string) (*string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, invalid("invalid email format")
	}
	return &email, nil
}

// NormalizePhone returns nil for an empty value.
func NormalizePhone(phone string) (*string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	if !phonePattern.MatchString(phone) {
		return nil, invalid("invalid phone number")
	}
	return &phone, nil
}

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrInternal
	}
	return string(hash), nil
}

func Sanitize(u user.User) user.User {
	u.PasswordHash = nil
	return u
}
