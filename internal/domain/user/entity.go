package user

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderGitHub AuthProvider = "GITHUB"
)

type User struct {
	ID             int64
	Username       string
	Email          *string
	Phone          *string
	PasswordHash   *string
	EmailVerified  bool
	PhoneVerified  bool
	AccountEnabled bool
	AccountLocked  bool
	Role           Role
	AuthProvider   AuthProvider
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Profile *Profile
}

type WorkType string

const (
	WorkRemote WorkType = "REMOTE"
	WorkHybrid WorkType = "HYBRID"
	WorkOnsite WorkType = "ONSITE"
)

func ParseWorkType(s string) (WorkType, error) {
	switch w := WorkType(strings.ToUpper(strings.TrimSpace(s))); w {
	case WorkRemote, WorkHybrid, WorkOnsite:
		return w, nil
	}
	return "", fmt.Errorf("unknown work type %q", s)
}

type Profile struct {
	Name              *string
	PictureURL        *string
	YearsOfExperience *int
	CurrentLocation   *string
	OpenToWorkTypes   []WorkType
	Skills            []string
	OpenToLocations   []string
	SocialLinks       map[string]string
	UpdatedAt         time.Time
}

// Identity is the authenticated caller, resolved once at the HTTP boundary
// and passed by value into the usecases. A nil *Identity means anonymous.
type Identity struct {
	UserID   int64
	Username string
	Role     Role
}
