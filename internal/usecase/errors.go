package usecase

import (
	"errors"
	"fmt"
)

// Category errors; handlers map these to status codes. Specific errors
// below wrap one of them so errors.Is matches both.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrJobNotFound         = fmt.Errorf("job %w", ErrNotFound)
	ErrAlreadySaved        = fmt.Errorf("job already saved: %w", ErrConflict)
	ErrSavedJobNotFound    = fmt.Errorf("saved job %w", ErrNotFound)
	ErrAlreadyApplied      = fmt.Errorf("already applied to job: %w", ErrConflict)
	ErrApplicationNotFound = fmt.Errorf("application %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func wrapInternal(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
}
