package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

// ticking returns a clock that advances one minute per call.
func ticking(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestTracking_SaveTwiceIsConflict(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	ctx := context.Background()
	ref := job.Ref{Family: job.FamilyGeneral, ID: 1}

	if _, err := f.tracking.SaveJob(ctx, ident(7), ref); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := f.tracking.SaveJob(ctx, ident(7), ref)
	if !errors.Is(err, ErrAlreadySaved) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if n := len(f.store.saved[7]); n != 1 {
		t.Fatalf("expected one saved row, got %d", n)
	}
}

func TestTracking_SaveUnknownJobWritesNothing(t *testing.T) {
	f := newFixture()
	_, err := f.tracking.SaveJob(context.Background(), ident(7), job.Ref{Family: job.FamilyIntern, ID: 99})
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if f.store.count("saved.Create") != 0 {
		t.Fatalf("expected no write")
	}
}

func TestTracking_AnonymousIsUnauthorized(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	ref := job.Ref{Family: job.FamilyGeneral, ID: 1}
	ctx := context.Background()

	if _, err := f.tracking.SaveJob(ctx, nil, ref); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.tracking.ListAppliedJobs(ctx, nil, nil, mustPage(t, 0, 10)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if f.store.totalCalls() != 0 {
		t.Fatalf("expected no storage access, got %v", f.store.calls)
	}
}

func TestTracking_UnsaveMissingRow(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	err := f.tracking.UnsaveJob(context.Background(), ident(7), job.Ref{Family: job.FamilyGeneral, ID: 1})
	if !errors.Is(err, ErrSavedJobNotFound) {
		t.Fatalf("expected ErrSavedJobNotFound, got %v", err)
	}
}

func TestTracking_UpsertKeepsAppliedAt(t *testing.T) {
	f := newFixture(mkJob(job.FamilyFulltime, 3, "Acme", "SRE", base))
	f.tracking.now = ticking(base)
	ctx := context.Background()
	ref := job.Ref{Family: job.FamilyFulltime, ID: 3}

	first, err := f.tracking.UpsertApplicationStatus(ctx, ident(1), ref, tracking.StatusApplied)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := f.tracking.UpsertApplicationStatus(ctx, ident(1), ref, tracking.StatusInterview)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if second.Status != tracking.StatusInterview || !second.Applied {
		t.Fatalf("unexpected state %+v", second)
	}
	if !first.AppliedAt.Equal(*second.AppliedAt) {
		t.Fatalf("appliedAt moved from %v to %v", first.AppliedAt, second.AppliedAt)
	}

	// same call again leaves one row with the same status
	if _, err := f.tracking.UpsertApplicationStatus(ctx, ident(1), ref, tracking.StatusInterview); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n := len(f.store.applied[1]); n != 1 {
		t.Fatalf("expected one applied row, got %d", n)
	}
}

func TestTracking_ApplyTwiceIsConflict(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	ctx := context.Background()
	ref := job.Ref{Family: job.FamilyGeneral, ID: 1}

	st, err := f.tracking.ApplyToJob(ctx, ident(1), ref, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.Status != tracking.StatusApplied {
		t.Fatalf("expected default status APPLIED, got %s", st.Status)
	}
	if _, err := f.tracking.ApplyToJob(ctx, ident(1), ref, tracking.StatusOffer); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if got := f.store.applied[1][0].Status; got != tracking.StatusApplied {
		t.Fatalf("conflicting apply changed status to %s", got)
	}
}

func TestTracking_Withdraw(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	ctx := context.Background()
	ref := job.Ref{Family: job.FamilyGeneral, ID: 1}

	if err := f.tracking.WithdrawApplication(ctx, ident(1), ref); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if _, err := f.tracking.UpsertApplicationStatus(ctx, ident(1), ref, tracking.StatusRejected); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := f.tracking.WithdrawApplication(ctx, ident(1), ref); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	st, err := f.tracking.GetApplicationStatus(ctx, ident(1), ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.Applied || st.AppliedAt != nil {
		t.Fatalf("expected not applied, got %+v", st)
	}
}

func TestTracking_FamiliesDoNotCollide(t *testing.T) {
	f := newFixture(
		mkJob(job.FamilyGeneral, 5, "Acme", "Go Dev", base),
		mkJob(job.FamilyIntern, 5, "Beta", "Intern", base),
	)
	ctx := context.Background()

	if _, err := f.tracking.SaveJob(ctx, ident(1), job.Ref{Family: job.FamilyIntern, ID: 5}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	ok, err := f.tracking.IsSaved(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("saving INTERN:5 marked GENERAL:5 as saved")
	}

	page, err := f.jobs.Browse(ctx, ident(1), job.FamilyGeneral, nil, mustPage(t, 0, 10))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].IsSaved {
		t.Fatalf("unexpected overlay %+v", page.Items)
	}
}

func TestTracking_ListSavedNewestFirstAndCached(t *testing.T) {
	f := newFixture(
		mkJob(job.FamilyGeneral, 1, "Acme", "A", base),
		mkJob(job.FamilyGeneral, 2, "Acme", "B", base),
		mkJob(job.FamilyIntern, 1, "Beta", "C", base),
	)
	f.tracking.now = ticking(base)
	ctx := context.Background()

	for _, ref := range []job.Ref{
		{Family: job.FamilyGeneral, ID: 2},
		{Family: job.FamilyIntern, ID: 1},
		{Family: job.FamilyGeneral, ID: 1},
	} {
		if _, err := f.tracking.SaveJob(ctx, ident(1), ref); err != nil {
			t.Fatalf("save %s: %v", ref, err)
		}
	}

	pr := mustPage(t, 0, 2)
	page, err := f.tracking.ListSavedJobs(ctx, ident(1), pr)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalElements != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items[0].Job.Ref() != (job.Ref{Family: job.FamilyGeneral, ID: 1}) ||
		page.Items[1].Job.Ref() != (job.Ref{Family: job.FamilyIntern, ID: 1}) {
		t.Fatalf("unexpected order %v, %v", page.Items[0].Job.Ref(), page.Items[1].Job.Ref())
	}
	for _, v := range page.Items {
		if !v.IsSaved {
			t.Fatalf("listed job %s not flagged saved", v.Job.Ref())
		}
	}

	lists := f.store.count("saved.ListByUser")
	if _, err := f.tracking.ListSavedJobs(ctx, ident(1), pr); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.store.count("saved.ListByUser") != lists {
		t.Fatalf("second read should be served from cache")
	}

	if err := f.tracking.UnsaveJob(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	page, err = f.tracking.ListSavedJobs(ctx, ident(1), pr)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalElements != 2 {
		t.Fatalf("stale listing after unsave: %+v", page)
	}
}

func TestTracking_ListingsLeaveOutDeletedJobs(t *testing.T) {
	f := newFixture(
		mkJob(job.FamilyGeneral, 1, "Acme", "A", base),
		mkJob(job.FamilyIntern, 2, "Beta", "B", base),
		mkJob(job.FamilyFulltime, 3, "Core", "C", base),
	)
	f.tracking.now = ticking(base)
	ctx := context.Background()
	refs := []job.Ref{
		{Family: job.FamilyGeneral, ID: 1},
		{Family: job.FamilyIntern, ID: 2},
		{Family: job.FamilyFulltime, ID: 3},
	}
	for _, ref := range refs {
		if _, err := f.tracking.SaveJob(ctx, ident(1), ref); err != nil {
			t.Fatalf("save %s: %v", ref, err)
		}
		if _, err := f.tracking.ApplyToJob(ctx, ident(1), ref, tracking.StatusApplied); err != nil {
			t.Fatalf("apply %s: %v", ref, err)
		}
	}

	// the intern posting disappears after it was tracked
	f.store.jobs = []job.Job{f.store.jobs[0], f.store.jobs[2]}

	saved, err := f.tracking.ListSavedJobs(ctx, ident(1), mustPage(t, 0, 10))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved.TotalElements != 2 || saved.TotalPages != 1 || len(saved.Items) != 2 {
		t.Fatalf("unexpected saved page %+v", saved)
	}

	applied, err := f.tracking.ListAppliedJobs(ctx, ident(1), nil, mustPage(t, 0, 1))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if applied.TotalElements != 2 || applied.TotalPages != 2 || len(applied.Items) != 1 {
		t.Fatalf("unexpected applied page %+v", applied)
	}
	if got := applied.Items[0].Job.Ref(); got != refs[2] {
		t.Fatalf("expected newest live application %s, got %s", refs[2], got)
	}
}

func TestTracking_MutationInvalidatesAndNotifies(t *testing.T) {
	f := newFixture(mkJob(job.FamilyGeneral, 1, "Acme", "Go Dev", base))
	ref := job.Ref{Family: job.FamilyGeneral, ID: 1}

	if _, err := f.tracking.SaveJob(context.Background(), ident(3), ref); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := f.cache.invalidatedString(); got != "savedJobs,appliedJobs,userStats" {
		t.Fatalf("unexpected invalidations %q", got)
	}
	if len(f.notifier.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.notifier.events))
	}
	ev := f.notifier.events[0]
	if ev.Type != EventOverlayChanged || ev.Family != job.FamilyGeneral || ev.JobID != 1 || ev.IsSaved == nil || !*ev.IsSaved {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestTracking_ListAppliedFiltersByStatus(t *testing.T) {
	f := newFixture(
		mkJob(job.FamilyGeneral, 1, "Acme", "A", base),
		mkJob(job.FamilyGeneral, 2, "Acme", "B", base),
	)
	ctx := context.Background()
	_, _ = f.tracking.UpsertApplicationStatus(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 1}, tracking.StatusOffer)
	_, _ = f.tracking.UpsertApplicationStatus(ctx, ident(1), job.Ref{Family: job.FamilyGeneral, ID: 2}, tracking.StatusRejected)

	statuses, err := ParseStatusFilter("offer")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	page, err := f.tracking.ListAppliedJobs(ctx, ident(1), statuses, mustPage(t, 0, 10))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Job.ID != 1 {
		t.Fatalf("unexpected page %+v", page.Items)
	}
	if s := page.Items[0].ApplicationStatus; s == nil || *s != tracking.StatusOffer {
		t.Fatalf("expected OFFER overlay, got %v", s)
	}
}

func TestParseStatusFilter(t *testing.T) {
	got, err := ParseStatusFilter(" applied, INTERVIEW ,")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0] != tracking.StatusApplied || got[1] != tracking.StatusInterview {
		t.Fatalf("unexpected %v", got)
	}
	if got, err := ParseStatusFilter(""); err != nil || got != nil {
		t.Fatalf("expected empty filter, got %v %v", got, err)
	}
	if _, err := ParseStatusFilter("APPLIED,HIRED"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
