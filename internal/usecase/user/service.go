package user

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/domain/user"
	ucauth "job-tracker/internal/usecase/auth"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("username, email or phone already in use")
	ErrInternal = errors.New("internal error")
)

// UpdateMeInput changes only the non-nil fields. An empty email or phone
// clears it.
type UpdateMeInput struct {
	Username *string
	Email    *string
	Phone    *string
	Password *string
	Profile  *ProfileInput
}

type ProfileInput struct {
	Name              *string
	PictureURL        *string
	YearsOfExperience *int
	CurrentLocation   *string
	OpenToWorkTypes   []user.WorkType
	Skills            []string
	OpenToLocations   []string
	SocialLinks       map[string]string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID int64) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return ucauth.Sanitize(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID int64, in UpdateMeInput) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if err := ucauth.ValidateUsername(name); err != nil {
			return user.User{}, err
		}
		usr.Username = name
	}
	if in.Email != nil {
		email, err := ucauth.NormalizeEmail(*in.Email)
		if err != nil {
			return user.User{}, err
		}
		usr.Email = email
	}
	if in.Phone != nil {
		phone, err := ucauth.NormalizePhone(*in.Phone)
		if err != nil {
			return user.User{}, err
		}
		usr.Phone = phone
	}
	if in.Password != nil {
		if err := ucauth.ValidatePassword(*in.Password); err != nil {
			return user.User{}, err
		}
		hash, err := ucauth.HashPassword(*in.Password)
		if err != nil {
			return user.User{}, ErrInternal
		}
		usr.PasswordHash = &hash
	}

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateLogin):
			return user.User{}, ErrConflict
		case errors.Is(err, user.ErrNotFound):
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.Profile != nil {
		var current user.Profile
		if usr.Profile != nil {
			current = *usr.Profile
		}
		if err := s.users.UpsertProfile(ctx, userID, in.Profile.applyTo(current)); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return user.User{}, ErrNotFound
			}
			return user.User{}, ErrInternal
		}
	}

	return s.GetMe(ctx, userID)
}

func (s *Service) DeleteMe(ctx context.Context, userID int64) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (in ProfileInput) applyTo(p user.Profile) user.Profile {
	if in.Name != nil {
		p.Name = in.Name
	}
	if in.PictureURL != nil {
		p.PictureURL = in.PictureURL
	}
	if in.YearsOfExperience != nil {
		p.YearsOfExperience = in.YearsOfExperience
	}
	if in.CurrentLocation != nil {
		p.CurrentLocation = in.CurrentLocation
	}
	if in.OpenToWorkTypes != nil {
		p.OpenToWorkTypes = in.OpenToWorkTypes
	}
	if in.Skills != nil {
		p.Skills = in.Skills
	}
	if in.OpenToLocations != nil {
		p.OpenToLocations = in.OpenToLocations
	}
	if in.SocialLinks != nil {
		p.SocialLinks = in.SocialLinks
	}
	return p
}
