package dto

import (
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/search"
	"job-tracker/internal/usecase"
)

type JobResponse struct {
	ID              int64      `json:"id"`
	Family          string     `json:"family"`
	ExternalID      string     `json:"external_id"`
	Category        string     `json:"category"`
	Source          string     `json:"source"`
	Company         string     `json:"company"`
	CompanyLogo     string     `json:"company_logo,omitempty"`
	Title           string     `json:"title"`
	Location        string     `json:"location,omitempty"`
	Department      string     `json:"department,omitempty"`
	EmploymentType  string     `json:"employment_type,omitempty"`
	Description     string     `json:"description,omitempty"`
	ApplyURL        string     `json:"apply_url,omitempty"`
	PostedAt        *time.Time `json:"posted_at"`
	IsRemote        bool       `json:"is_remote"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	MinSalary       int        `json:"min_salary"`
	MaxSalary       int        `json:"max_salary"`
	CountryCode     string     `json:"country_code,omitempty"`

	IsSaved           bool       `json:"is_saved"`
	IsApplied         bool       `json:"is_applied"`
	IsFollowed        bool       `json:"is_followed"`
	ApplicationStatus *string    `json:"application_status"`
	AppliedAt         *time.Time `json:"applied_at"`
}

type PageResponse[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func NewJobResponse(v usecase.JobView) JobResponse {
	j := v.Job
	out := JobResponse{
		ID:              j.ID,
		Family:          string(j.Family),
		ExternalID:      j.ExternalID,
		Category:        string(j.Category),
		Source:          string(j.Source),
		Company:         j.Company,
		CompanyLogo:     j.CompanyLogo,
		Title:           j.Title,
		Location:        j.Location,
		Department:      j.Department,
		EmploymentType:  string(j.EmploymentType),
		Description:     j.Description,
		ApplyURL:        j.ApplyURL,
		PostedAt:        utc(j.PostedAt),
		IsRemote:        j.IsRemote,
		ExperienceLevel: string(j.ExperienceLevel),
		MinSalary:       j.MinSalary,
		MaxSalary:       j.MaxSalary,
		CountryCode:     j.CountryCode,
		IsSaved:         v.IsSaved,
		IsApplied:       v.IsApplied,
		IsFollowed:      v.IsFollowed,
		AppliedAt:       utc(v.AppliedAt),
	}
	if v.ApplicationStatus != nil {
		s := string(*v.ApplicationStatus)
		out.ApplicationStatus = &s
	}
	return out
}

func NewJobResponses(views []usecase.JobView) []JobResponse {
	out := make([]JobResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewJobResponse(v))
	}
	return out
}

func NewJobPageResponse(p search.Page[usecase.JobView]) PageResponse[JobResponse] {
	return PageResponse[JobResponse]{
		Items:         NewJobResponses(p.Items),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

type SavedJobResponse struct {
	Family  string    `json:"family"`
	JobID   int64     `json:"job_id"`
	SavedAt time.Time `json:"saved_at"`
}

func NewSavedJobResponse(s tracking.SavedJob) SavedJobResponse {
	return SavedJobResponse{Family: string(s.Ref.Family), JobID: s.Ref.ID, SavedAt: s.SavedAt.UTC()}
}

type ApplicationStatusResponse struct {
	Family    string     `json:"family"`
	JobID     int64      `json:"job_id"`
	Applied   bool       `json:"applied"`
	Status    *string    `json:"status,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

func NewApplicationStatusResponse(ref job.Ref, st tracking.ApplicationState) ApplicationStatusResponse {
	out := ApplicationStatusResponse{Family: string(ref.Family), JobID: ref.ID, Applied: st.Applied}
	if st.Applied {
		s := string(st.Status)
		out.Status = &s
		out.AppliedAt = utc(st.AppliedAt)
	}
	return out
}

type IsSavedResponse struct {
	Family  string `json:"family"`
	JobID   int64  `json:"job_id"`
	IsSaved bool   `json:"is_saved"`
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
