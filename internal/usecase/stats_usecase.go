package usecase

import (
	"context"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/repository"

	"go.uber.org/zap"
)

type PlatformStats struct {
	TotalJobs            int64            `json:"totalJobs"`
	TotalActiveJobs      int64            `json:"totalActiveJobs"`
	TotalCompanies       int64            `json:"totalCompanies"`
	JobsByCategory       map[string]int64 `json:"jobsByCategory"`
	JobsByEmploymentType map[string]int64 `json:"jobsByEmploymentType"`
}

type RecentActivity struct {
	SavedThisWeek   int64 `json:"savedThisWeek"`
	AppliedThisWeek int64 `json:"appliedThisWeek"`
}

type UserStats struct {
	TotalSaved                 int64                     `json:"totalSaved"`
	TotalApplied               int64                     `json:"totalApplied"`
	ApplicationStatusBreakdown map[tracking.Status]int64 `json:"applicationStatusBreakdown"`
	RecentActivity             RecentActivity            `json:"recentActivity"`
}

type StatsUsecase interface {
	PlatformStats(ctx context.Context, families []job.Family) (PlatformStats, error)
	UserStats(ctx context.Context, ident *user.Identity) (UserStats, error)
}

const recentWindow = 7 * 24 * time.Hour

type Stats struct {
	jobs    repository.JobRepository
	saved   repository.SavedJobRepository
	applied repository.AppliedJobRepository
	cache   cacheAside
	timeout time.Duration
	log     *zap.Logger

	now func() time.Time
}

func NewStatsUsecase(
	jobs repository.JobRepository,
	saved repository.SavedJobRepository,
	applied repository.AppliedJobRepository,
	c Cache,
	timeout time.Duration,
	log *zap.Logger,
) *Stats {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("stats")
	return &Stats{
		jobs:    jobs,
		saved:   saved,
		applied: applied,
		cache:   newCacheAside(c, log),
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// PlatformStats aggregates over the given families; none means all of them.
func (u *Stats) PlatformStats(ctx context.Context, families []job.Family) (PlatformStats, error) {
	for _, f := range families {
		if err := checkFamily(f); err != nil {
			return PlatformStats{}, err
		}
	}
	key := cache.Key{Namespace: cache.NamespacePlatformStats, Params: familiesCacheParams(families)}

	var out PlatformStats
	if u.cache.get(ctx, key, &out) {
		return out, nil
	}

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	var err error
	if out.TotalJobs, err = u.jobs.CountAll(ctx, families); err != nil {
		return PlatformStats{}, wrapInternal("count jobs", err)
	}
	if out.TotalActiveJobs, err = u.jobs.CountActive(ctx, families); err != nil {
		return PlatformStats{}, wrapInternal("count active jobs", err)
	}
	if out.TotalCompanies, err = u.jobs.CountDistinctActiveCompanies(ctx, families); err != nil {
		return PlatformStats{}, wrapInternal("count companies", err)
	}
	if out.JobsByCategory, err = u.jobs.CountActiveByCategory(ctx, families); err != nil {
		return PlatformStats{}, wrapInternal("count by category", err)
	}
	if out.JobsByEmploymentType, err = u.jobs.CountActiveByEmploymentType(ctx, families); err != nil {
		return PlatformStats{}, wrapInternal("count by employment type", err)
	}
	if out.JobsByCategory == nil {
		out.JobsByCategory = map[string]int64{}
	}
	if out.JobsByEmploymentType == nil {
		out.JobsByEmploymentType = map[string]int64{}
	}

	u.cache.put(ctx, key, out)
	return out, nil
}

// UserStats always reports every application status, zero when unused.
func (u *Stats) UserStats(ctx context.Context, ident *user.Identity) (UserStats, error) {
	if ident == nil {
		return UserStats{}, ErrUnauthorized
	}
	key := cache.Key{Namespace: cache.NamespaceUserStats, UserID: ident.UserID}

	var out UserStats
	if u.cache.get(ctx, key, &out) {
		return out, nil
	}

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	since := u.now().UTC().Add(-recentWindow)
	var err error
	if out.TotalSaved, err = u.saved.CountByUser(ctx, ident.UserID); err != nil {
		return UserStats{}, wrapInternal("count saved", err)
	}
	if out.TotalApplied, err = u.applied.CountByUser(ctx, ident.UserID); err != nil {
		return UserStats{}, wrapInternal("count applied", err)
	}
	if out.RecentActivity.SavedThisWeek, err = u.saved.CountSince(ctx, ident.UserID, since); err != nil {
		return UserStats{}, wrapInternal("count recent saves", err)
	}
	if out.RecentActivity.AppliedThisWeek, err = u.applied.CountSince(ctx, ident.UserID, since); err != nil {
		return UserStats{}, wrapInternal("count recent applications", err)
	}

	byStatus, err := u.applied.CountByStatus(ctx, ident.UserID)
	if err != nil {
		return UserStats{}, wrapInternal("count by status", err)
	}
	out.ApplicationStatusBreakdown = make(map[tracking.Status]int64, len(tracking.Statuses()))
	for _, st := range tracking.Statuses() {
		out.ApplicationStatusBreakdown[st] = byStatus[st]
	}

	u.cache.put(ctx, key, out)
	return out, nil
}

func (u *Stats) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}
