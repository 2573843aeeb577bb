package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"
)

// JobView is a job decorated with the caller's own state.
type JobView struct {
	Job               job.Job          `json:"job"`
	IsSaved           bool             `json:"isSaved"`
	IsApplied         bool             `json:"isApplied"`
	IsFollowed        bool             `json:"isFollowed"`
	ApplicationStatus *tracking.Status `json:"applicationStatus,omitempty"`
	AppliedAt         *time.Time       `json:"appliedAt,omitempty"`
}

// OverlayResolver joins per-user saved, applied and followed state onto a
// page of jobs with a fixed number of lookups, independent of page size.
type OverlayResolver struct {
	saved     repository.SavedJobRepository
	applied   repository.AppliedJobRepository
	companies repository.PreferredCompanyRepository
}

func NewOverlayResolver(saved repository.SavedJobRepository, applied repository.AppliedJobRepository, companies repository.PreferredCompanyRepository) *OverlayResolver {
	return &OverlayResolver{saved: saved, applied: applied, companies: companies}
}

// Resolve keeps the order of jobs. A nil identity yields the anonymous
// overlay without touching storage.
func (r *OverlayResolver) Resolve(ctx context.Context, ident *user.Identity, jobs []job.Job) ([]JobView, error) {
	views := make([]JobView, len(jobs))
	for i, j := range jobs {
		if !j.Family.Valid() {
			return nil, fmt.Errorf("%w: job %d carries family %q", ErrInternal, j.ID, string(j.Family))
		}
		views[i] = JobView{Job: j}
	}
	if ident == nil || len(jobs) == 0 {
		return views, nil
	}

	refs := make([]job.Ref, len(jobs))
	for i, j := range jobs {
		refs[i] = j.Ref()
	}

	saved, err := r.saved.SavedAmong(ctx, ident.UserID, refs)
	if err != nil {
		return nil, wrapInternal("load saved overlay", err)
	}
	applied, err := r.applied.AppliedAmong(ctx, ident.UserID, refs)
	if err != nil {
		return nil, wrapInternal("load applied overlay", err)
	}
	companies, err := r.companies.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, wrapInternal("load preferred companies", err)
	}
	followed := make(map[string]bool, len(companies))
	for _, c := range companies {
		followed[strings.TrimSpace(c)] = true
	}

	for i := range views {
		ref := refs[i]
		views[i].IsSaved = saved[ref]
		// ingested company names may carry stray whitespace
		views[i].IsFollowed = followed[strings.TrimSpace(views[i].Job.Company)]
		if a, ok := applied[ref]; ok {
			st := a.Status
			at := a.AppliedAt
			views[i].IsApplied = true
			views[i].ApplicationStatus = &st
			views[i].AppliedAt = &at
		}
	}
	return views, nil
}

func (r *OverlayResolver) resolveOne(ctx context.Context, ident *user.Identity, j job.Job) (JobView, error) {
	views, err := r.Resolve(ctx, ident, []job.Job{j})
	if err != nil {
		return JobView{}, err
	}
	return views[0], nil
}
