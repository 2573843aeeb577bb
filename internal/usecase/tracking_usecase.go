package usecase

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/repository"
	"job-tracker/internal/search"

	"go.uber.org/zap"
)

// Notifier pushes an event to every live connection of one user.
type Notifier interface {
	NotifyUser(userID int64, event any)
}

const EventOverlayChanged = "overlay_changed"

type OverlayEvent struct {
	Type      string           `json:"type"`
	Action    string           `json:"action"`
	Family    job.Family       `json:"family"`
	JobID     int64            `json:"jobId"`
	IsSaved   *bool            `json:"isSaved,omitempty"`
	IsApplied *bool            `json:"isApplied,omitempty"`
	Status    *tracking.Status `json:"status,omitempty"`
}

type TrackingUsecase interface {
	SaveJob(ctx context.Context, ident *user.Identity, ref job.Ref) (tracking.SavedJob, error)
	UnsaveJob(ctx context.Context, ident *user.Identity, ref job.Ref) error
	IsSaved(ctx context.Context, ident *user.Identity, ref job.Ref) (bool, error)
	ListSavedJobs(ctx context.Context, ident *user.Identity, pr search.PageRequest) (search.Page[JobView], error)

	ApplyToJob(ctx context.Context, ident *user.Identity, ref job.Ref, status tracking.Status) (tracking.ApplicationState, error)
	UpsertApplicationStatus(ctx context.Context, ident *user.Identity, ref job.Ref, status tracking.Status) (tracking.ApplicationState, error)
	WithdrawApplication(ctx context.Context, ident *user.Identity, ref job.Ref) error
	GetApplicationStatus(ctx context.Context, ident *user.Identity, ref job.Ref) (tracking.ApplicationState, error)
	ListAppliedJobs(ctx context.Context, ident *user.Identity, statuses []tracking.Status, pr search.PageRequest) (search.Page[JobView], error)
}

// Any saved or applied change invalidates all three per-user namespaces:
// listings carry both flags and stats count both.
var trackingNamespaces = []cache.Namespace{
	cache.NamespaceSavedJobs,
	cache.NamespaceAppliedJobs,
	cache.NamespaceUserStats,
}

type Tracking struct {
	jobs     repository.JobRepository
	saved    repository.SavedJobRepository
	applied  repository.AppliedJobRepository
	overlay  *OverlayResolver
	cache    cacheAside
	notifier Notifier
	log      *zap.Logger

	now func() time.Time
}

func NewTrackingUsecase(
	jobs repository.JobRepository,
	saved repository.SavedJobRepository,
	applied repository.AppliedJobRepository,
	overlay *OverlayResolver,
	c Cache,
	notifier Notifier,
	log *zap.Logger,
) *Tracking {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tracking")
	return &Tracking{
		jobs:     jobs,
		saved:    saved,
		applied:  applied,
		overlay:  overlay,
		cache:    newCacheAside(c, log),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (u *Tracking) SaveJob(ctx context.Context, ident *user.Identity, ref job.Ref) (tracking.SavedJob, error) {
	if ident == nil {
		return tracking.SavedJob{}, ErrUnauthorized
	}
	if _, err := findJob(ctx, u.jobs, ref); err != nil {
		return tracking.SavedJob{}, err
	}

	s, err := u.saved.Create(ctx, ident.UserID, ref, u.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySaved) {
			return tracking.SavedJob{}, ErrAlreadySaved
		}
		return tracking.SavedJob{}, wrapInternal("save job", err)
	}

	u.afterMutation(ctx, ident.UserID, OverlayEvent{Action: "saved", IsSaved: boolPtr(true)}, ref)
	return s, nil
}

func (u *Tracking) UnsaveJob(ctx context.Context, ident *user.Identity, ref job.Ref) error {
	if ident == nil {
		return ErrUnauthorized
	}
	if _, err := findJob(ctx, u.jobs, ref); err != nil {
		return err
	}

	deleted, err := u.saved.Delete(ctx, ident.UserID, ref)
	if err != nil {
		return wrapInternal("unsave job", err)
	}
	if !deleted {
		return ErrSavedJobNotFound
	}

	u.afterMutation(ctx, ident.UserID, OverlayEvent{Action: "unsaved", IsSaved: boolPtr(false)}, ref)
	return nil
}

func (u *Tracking) IsSaved(ctx context.Context, ident *user.Identity, ref job.Ref) (bool, error) {
	if ident == nil {
		return false, ErrUnauthorized
	}
	if !ref.Valid() {
		return false, invalidInput("invalid job reference %s", ref)
	}
	ok, err := u.saved.Exists(ctx, ident.UserID, ref)
	if err != nil {
		return false, wrapInternal("check saved", err)
	}
	return ok, nil
}

// ListSavedJobs returns newest saves first. Saved rows whose job no longer
// exists are left out of the page and the total.
func (u *Tracking) ListSavedJobs(ctx context.Context, ident *user.Identity, pr search.PageRequest) (search.Page[JobView], error) {
	if ident == nil {
		return search.Page[JobView]{}, ErrUnauthorized
	}
	key := cache.Key{Namespace: cache.NamespaceSavedJobs, UserID: ident.UserID, Params: listCacheParams(pr, nil)}

	var cached search.Page[JobView]
	if u.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	rows, total, err := u.saved.ListByUser(ctx, ident.UserID, pr.Limit(), pr.Offset())
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("list saved jobs", err)
	}
	refs := make([]job.Ref, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref
	}

	page, err := u.hydrate(ctx, ident, refs, pr, total)
	if err != nil {
		return search.Page[JobView]{}, err
	}
	u.cache.put(ctx, key, page)
	return page, nil
}

// ApplyToJob is the create-only path: an existing application is a conflict
// and keeps its status.
func (u *Tracking) ApplyToJob(ctx context.Context, ident *user.Identity, ref job.Ref, status tracking.Status) (tracking.ApplicationState, error) {
	if ident == nil {
		return tracking.ApplicationState{}, ErrUnauthorized
	}
	if status == "" {
		status = tracking.StatusApplied
	}
	if _, err := findJob(ctx, u.jobs, ref); err != nil {
		return tracking.ApplicationState{}, err
	}

	a, err := u.applied.Create(ctx, ident.UserID, ref, status, u.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyApplied) {
			return tracking.ApplicationState{}, ErrAlreadyApplied
		}
		return tracking.ApplicationState{}, wrapInternal("apply to job", err)
	}

	u.afterMutation(ctx, ident.UserID, OverlayEvent{Action: "applied", IsApplied: boolPtr(true), Status: &a.Status}, ref)
	return stateOf(a), nil
}

// UpsertApplicationStatus creates the application or overwrites its status
// in place. Repeating the same call is a no-op beyond the first.
func (u *Tracking) UpsertApplicationStatus(ctx context.Context, ident *user.Identity, ref job.Ref, status tracking.Status) (tracking.ApplicationState, error) {
	if ident == nil {
		return tracking.ApplicationState{}, ErrUnauthorized
	}
	if status == "" {
		status = tracking.StatusApplied
	}
	if _, err := findJob(ctx, u.jobs, ref); err != nil {
		return tracking.ApplicationState{}, err
	}

	a, err := u.applied.Upsert(ctx, ident.UserID, ref, status, u.now().UTC())
	if err != nil {
		return tracking.ApplicationState{}, wrapInternal("update application status", err)
	}

	u.afterMutation(ctx, ident.UserID, OverlayEvent{Action: "status_updated", IsApplied: boolPtr(true), Status: &a.Status}, ref)
	return stateOf(a), nil
}

func (u *Tracking) WithdrawApplication(ctx context.Context, ident *user.Identity, ref job.Ref) error {
	if ident == nil {
		return ErrUnauthorized
	}
	if _, err := findJob(ctx, u.jobs, ref); err != nil {
		return err
	}

	deleted, err := u.applied.Delete(ctx, ident.UserID, ref)
	if err != nil {
		return wrapInternal("withdraw application", err)
	}
	if !deleted {
		return ErrApplicationNotFound
	}

	u.afterMutation(ctx, ident.UserID, OverlayEvent{Action: "withdrawn", IsApplied: boolPtr(false)}, ref)
	return nil
}

func (u *Tracking) GetApplicationStatus(ctx context.Context, ident *user.Identity, ref job.Ref) (tracking.ApplicationState, error) {
	if ident == nil {
		return tracking.ApplicationState{}, ErrUnauthorized
	}
	if !ref.Valid() {
		return tracking.ApplicationState{}, invalidInput("invalid job reference %s", ref)
	}
	a, err := u.applied.Find(ctx, ident.UserID, ref)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return tracking.ApplicationState{Applied: false}, nil
		}
		return tracking.ApplicationState{}, wrapInternal("get application status", err)
	}
	return stateOf(a), nil
}

func (u *Tracking) ListAppliedJobs(ctx context.Context, ident *user.Identity, statuses []tracking.Status, pr search.PageRequest) (search.Page[JobView], error) {
	if ident == nil {
		return search.Page[JobView]{}, ErrUnauthorized
	}
	key := cache.Key{Namespace: cache.NamespaceAppliedJobs, UserID: ident.UserID, Params: listCacheParams(pr, statuses)}

	var cached search.Page[JobView]
	if u.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	rows, total, err := u.applied.ListByUser(ctx, ident.UserID, statuses, pr.Limit(), pr.Offset())
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("list applied jobs", err)
	}
	refs := make([]job.Ref, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref
	}

	page, err := u.hydrate(ctx, ident, refs, pr, total)
	if err != nil {
		return search.Page[JobView]{}, err
	}
	u.cache.put(ctx, key, page)
	return page, nil
}

// ParseStatusFilter reads a comma separated status list. Empty input means
// no filter; an unknown status is invalid input.
func ParseStatusFilter(raw string) ([]tracking.Status, error) {
	var out []tracking.Status
	for _, tok := range search.SplitList(raw) {
		st, err := tracking.ParseStatus(tok)
		if err != nil {
			return nil, invalidInput("%v", err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (u *Tracking) hydrate(ctx context.Context, ident *user.Identity, refs []job.Ref, pr search.PageRequest, total int64) (search.Page[JobView], error) {
	byRef, err := u.jobs.FindByRefs(ctx, refs)
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("load jobs", err)
	}
	jobs := make([]job.Job, 0, len(refs))
	for _, ref := range refs {
		j, ok := byRef[ref]
		if !ok {
			u.log.Debug("tracked job no longer exists", zap.Stringer("ref", ref))
			continue
		}
		jobs = append(jobs, j)
	}

	views, err := u.overlay.Resolve(ctx, ident, jobs)
	if err != nil {
		return search.Page[JobView]{}, err
	}
	return search.NewPage(views, pr, total), nil
}

func (u *Tracking) afterMutation(ctx context.Context, userID int64, ev OverlayEvent, ref job.Ref) {
	u.cache.invalidate(ctx, userID, trackingNamespaces...)

	if u.notifier == nil {
		return
	}
	ev.Type = EventOverlayChanged
	ev.Family = ref.Family
	ev.JobID = ref.ID
	u.notifier.NotifyUser(userID, ev)
}

func stateOf(a tracking.AppliedJob) tracking.ApplicationState {
	at := a.AppliedAt
	return tracking.ApplicationState{Applied: true, Status: a.Status, AppliedAt: &at}
}

func boolPtr(b bool) *bool {
	return &b
}
