package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
)

func TestStats_UserStatsZeroFillsBreakdown(t *testing.T) {
	f := newFixture()
	got, err := f.stats.UserStats(context.Background(), ident(9))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.ApplicationStatusBreakdown) != 4 {
		t.Fatalf("expected 4 statuses, got %v", got.ApplicationStatusBreakdown)
	}
	for _, st := range tracking.Statuses() {
		v, ok := got.ApplicationStatusBreakdown[st]
		if !ok || v != 0 {
			t.Fatalf("status %s: got %d present=%v", st, v, ok)
		}
	}
}

func TestStats_UserStatsRecentWindow(t *testing.T) {
	f := newFixture(
		mkJob(job.FamilyGeneral, 1, "Acme", "A", base),
		mkJob(job.FamilyIntern, 2, "Acme", "B", base),
	)
	ctx := context.Background()
	now := base.Add(30 * 24 * time.Hour)

	f.tracking.now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	if _, err := f.tracking.SaveJob(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	f.tracking.now = func() time.Time { return now.Add(-time.Hour) }
	if _, err := f.tracking.SaveJob(ctx, ident(1), job.Ref{Family: job.FamilyIntern, ID: 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := f.tracking.UpsertApplicationStatus(ctx, ident(1), job.Ref{Family: job.FamilyIntern, ID: 2}, tracking.StatusInterview); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	f.stats.now = func() time.Time { return now }
	got, err := f.stats.UserStats(ctx, ident(1))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.TotalSaved != 2 || got.TotalApplied != 1 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.RecentActivity.SavedThisWeek != 1 || got.RecentActivity.AppliedThisWeek != 1 {
		t.Fatalf("unexpected recent activity %+v", got.RecentActivity)
	}
	if got.ApplicationStatusBreakdown[tracking.StatusInterview] != 1 || got.ApplicationStatusBreakdown[tracking.StatusApplied] != 0 {
		t.Fatalf("unexpected breakdown %v", got.ApplicationStatusBreakdown)
	}
}

func TestStats_UserStatsInvalidatedByMutation(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "A", base))
	ctx := context.Background()

	before, err := f.stats.UserStats(ctx, ident(1))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if before.TotalSaved != 0 {
		t.Fatalf("unexpected %+v", before)
	}
	if _, err := f.tracking.SaveJob(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	after, err := f.stats.UserStats(ctx, ident(1))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if after.TotalSaved != 1 {
		t.Fatalf("stats not refreshed after save: %+v", after)
	}
}

func TestStats_PlatformStats(t *testing.T) {
	inactive := mkJob(job.FamilyGeneral, 3, "Gone", "Old", base)
	inactive.IsActive = false
	noType := mkJob(job.FamilyIntern, 1, "Beta", "Intern", base)
	noType.EmploymentType = ""
	noType.Category = job.CategoryStartupLaunchpad

	f := newFixture(
		mkJob(job.FamilyGeneral, 1, "Acme", "A", base),
		mkJob(job.FamilyGeneral, 2, "Acme", "B", base),
		inactive,
		noType,
	)
	ctx := context.Background()

	all, err := f.stats.PlatformStats(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if all.TotalJobs != 4 || all.TotalActiveJobs != 3 || all.TotalCompanies != 2 {
		t.Fatalf("unexpected totals %+v", all)
	}
	if all.JobsByCategory["DISCOVER"] != 2 || all.JobsByCategory["STARTUP_LAUNCHPAD"] != 1 {
		t.Fatalf("unexpected categories %v", all.JobsByCategory)
	}
	if all.JobsByEmploymentType["FULL_TIME"] != 2 || len(all.JobsByEmploymentType) != 1 {
		t.Fatalf("unexpected employment types %v", all.JobsByEmploymentType)
	}

	intern, err := f.stats.PlatformStats(ctx, []job.Family{job.FamilyIntern})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if intern.TotalJobs != 1 || intern.TotalCompanies != 1 {
		t.Fatalf("unexpected intern stats %+v", intern)
	}

	if _, err := f.stats.PlatformStats(ctx, []job.Family{"PARTTIME"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStats_AnonymousUserStats(t *testing.T) {
	f := newFixture()
	if _, err := f.stats.UserStats(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
