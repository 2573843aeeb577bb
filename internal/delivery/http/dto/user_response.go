package dto

import (
	"time"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/usecase"
)

type ProfileResponse struct {
	Name              *string           `json:"name"`
	PictureURL        *string           `json:"picture_url"`
	YearsOfExperience *int              `json:"years_of_experience"`
	CurrentLocation   *string           `json:"current_location"`
	OpenToWorkTypes   []string          `json:"open_to_work_types"`
	Skills            []string          `json:"skills"`
	OpenToLocations   []string          `json:"open_to_locations"`
	SocialLinks       map[string]string `json:"social_links"`
}

type UserResponse struct {
	ID            int64            `json:"id"`
	Username      string           `json:"username"`
	Email         *string          `json:"email"`
	Phone         *string          `json:"phone"`
	EmailVerified bool             `json:"email_verified"`
	PhoneVerified bool             `json:"phone_verified"`
	Role          string           `json:"role"`
	AuthProvider  string           `json:"auth_provider"`
	LastLoginAt   *time.Time       `json:"last_login_at"`
	CreatedAt     time.Time        `json:"created_at"`
	Profile       *ProfileResponse `json:"profile"`
}

func NewUserResponse(u user.User) UserResponse {
	out := UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Phone:         u.Phone,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		Role:          string(u.Role),
		AuthProvider:  string(u.AuthProvider),
		LastLoginAt:   utc(u.LastLoginAt),
		CreatedAt:     u.CreatedAt.UTC(),
	}
	if p := u.Profile; p != nil {
		wt := make([]string, 0, len(p.OpenToWorkTypes))
		for _, w := range p.OpenToWorkTypes {
			wt = append(wt, string(w))
		}
		out.Profile = &ProfileResponse{
			Name:              p.Name,
			PictureURL:        p.PictureURL,
			YearsOfExperience: p.YearsOfExperience,
			CurrentLocation:   p.CurrentLocation,
			OpenToWorkTypes:   wt,
			Skills:            nonNil(p.Skills),
			OpenToLocations:   nonNil(p.OpenToLocations),
			SocialLinks:       p.SocialLinks,
		}
	}
	return out
}

type AuthResponse struct {
	User             *UserResponse `json:"user,omitempty"`
	AccessToken      string        `json:"access_token"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshToken     string        `json:"refresh_token"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
	TokenType        string        `json:"token_type"`
}

func NewAuthResponse(u *user.User, p usecase.TokenPair) AuthResponse {
	out := AuthResponse{
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  p.AccessExpiresAt.UTC(),
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshExpiresAt.UTC(),
		TokenType:        "Bearer",
	}
	if u != nil {
		ur := NewUserResponse(*u)
		out.User = &ur
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
