package preference

import "time"

type JobPreferences struct {
	UserID       int64
	JobTitles    []string
	Skills       []string
	RoleTypes    []string
	EmailEnabled bool
	UpdatedAt    *time.Time
}

// Default is what a user without a stored row sees.
func Default(userID int64) JobPreferences {
	return JobPreferences{
		UserID:       userID,
		JobTitles:    []string{},
		Skills:       []string{},
		RoleTypes:    []string{},
		EmailEnabled: true,
	}
}

// Update carries the fields of a save request. A nil slice or pointer leaves
// the stored value untouched; a non-nil one replaces it entirely.
type Update struct {
	JobTitles    []string
	Skills       []string
	RoleTypes    []string
	EmailEnabled *bool
}

func (u Update) ApplyTo(p JobPreferences) JobPreferences {
	if u.JobTitles != nil {
		p.JobTitles = cleanList(u.JobTitles)
	}
	if u.Skills != nil {
		p.Skills = cleanList(u.Skills)
	}
	if u.RoleTypes != nil {
		p.RoleTypes = cleanList(u.RoleTypes)
	}
	if u.EmailEnabled != nil {
		p.EmailEnabled = *u.EmailEnabled
	}
	return p
}
