package dto

import (
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/usecase"
)

type PlatformStatsResponse struct {
	TotalJobs            int64            `json:"total_jobs"`
	TotalActiveJobs      int64            `json:"total_active_jobs"`
	TotalCompanies       int64            `json:"total_companies"`
	JobsByCategory       map[string]int64 `json:"jobs_by_category"`
	JobsByEmploymentType map[string]int64 `json:"jobs_by_employment_type"`
}

func NewPlatformStatsResponse(s usecase.PlatformStats) PlatformStatsResponse {
	return PlatformStatsResponse(s)
}

type UserStatsResponse struct {
	TotalSaved                 int64            `json:"total_saved"`
	TotalApplied               int64            `json:"total_applied"`
	ApplicationStatusBreakdown map[string]int64 `json:"application_status_breakdown"`
	RecentActivity             struct {
		SavedThisWeek   int64 `json:"saved_this_week"`
		AppliedThisWeek int64 `json:"applied_this_week"`
	} `json:"recent_activity"`
}

func NewUserStatsResponse(s usecase.UserStats) UserStatsResponse {
	out := UserStatsResponse{
		TotalSaved:                 s.TotalSaved,
		TotalApplied:               s.TotalApplied,
		ApplicationStatusBreakdown: make(map[string]int64, len(tracking.Statuses())),
	}
	for _, st := range tracking.Statuses() {
		out.ApplicationStatusBreakdown[string(st)] = s.ApplicationStatusBreakdown[st]
	}
	out.RecentActivity.SavedThisWeek = s.RecentActivity.SavedThisWeek
	out.RecentActivity.AppliedThisWeek = s.RecentActivity.AppliedThisWeek
	return out
}
