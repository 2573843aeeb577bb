package dto

import (
	"time"

	"job-tracker/internal/domain/preference"
)

type PreferredCompaniesResponse struct {
	Companies []string `json:"companies"`
}

type JobPreferencesResponse struct {
	JobTitles    []string   `json:"job_titles"`
	Skills       []string   `json:"skills"`
	RoleTypes    []string   `json:"role_types"`
	EmailEnabled bool       `json:"email_enabled"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func NewJobPreferencesResponse(p preference.JobPreferences) JobPreferencesResponse {
	return JobPreferencesResponse{
		JobTitles:    nonNil(p.JobTitles),
		Skills:       nonNil(p.Skills),
		RoleTypes:    nonNil(p.RoleTypes),
		EmailEnabled: p.EmailEnabled,
		UpdatedAt:    utc(p.UpdatedAt),
	}
}
