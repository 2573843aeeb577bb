package usecase

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"
	"job-tracker/internal/search"

	"go.uber.org/zap"
)

type JobsUsecase interface {
	Browse(ctx context.Context, ident *user.Identity, family job.Family, category *job.Category, pr search.PageRequest) (search.Page[JobView], error)
	GetJob(ctx context.Context, ident *user.Identity, ref job.Ref) (JobView, error)
	Search(ctx context.Context, ident *user.Identity, family job.Family, keywords []string, category *job.Category, pr search.PageRequest) (search.Page[JobView], error)
	Filter(ctx context.Context, ident *user.Identity, family job.Family, c search.Criteria, pr search.PageRequest) (search.Page[JobView], error)
	Featured(ctx context.Context, family job.Family, category *job.Category, size int) ([]JobView, error)
	PreferredFeed(ctx context.Context, ident *user.Identity, family job.Family, pr search.PageRequest) (search.Page[JobView], error)
}

type Jobs struct {
	jobs      repository.JobRepository
	companies repository.PreferredCompanyRepository
	overlay   *OverlayResolver
	log       *zap.Logger
}

func NewJobsUsecase(jobs repository.JobRepository, companies repository.PreferredCompanyRepository, overlay *OverlayResolver, log *zap.Logger) *Jobs {
	if log == nil {
		log = zap.NewNop()
	}
	return &Jobs{jobs: jobs, companies: companies, overlay: overlay, log: log.Named("jobs")}
}

func (u *Jobs) Browse(ctx context.Context, ident *user.Identity, family job.Family, category *job.Category, pr search.PageRequest) (search.Page[JobView], error) {
	if err := checkFamily(family); err != nil {
		return search.Page[JobView]{}, err
	}
	var (
		page search.Page[job.Job]
		err  error
	)
	if category != nil {
		page, err = u.jobs.FindActiveByCategory(ctx, family, *category, pr)
	} else {
		page, err = u.jobs.FindActive(ctx, family, pr)
	}
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("browse jobs", err)
	}
	return u.decorate(ctx, ident, page)
}

// GetJob hides inactive postings the same way listings do.
func (u *Jobs) GetJob(ctx context.Context, ident *user.Identity, ref job.Ref) (JobView, error) {
	j, err := findJob(ctx, u.jobs, ref)
	if err != nil {
		return JobView{}, err
	}
	if !j.IsActive {
		return JobView{}, ErrJobNotFound
	}
	return u.overlay.resolveOne(ctx, ident, j)
}

// Search matches any keyword against title, description or company. No
// usable keyword falls back to Browse.
func (u *Jobs) Search(ctx context.Context, ident *user.Identity, family job.Family, keywords []string, category *job.Category, pr search.PageRequest) (search.Page[JobView], error) {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return u.Browse(ctx, ident, family, category, pr)
	}
	if err := checkFamily(family); err != nil {
		return search.Page[JobView]{}, err
	}

	p := search.And(search.Active(), search.KeywordSearch(cleaned))
	if category != nil {
		p = search.And(p, search.InCategory(*category))
	}
	page, err := u.jobs.Search(ctx, family, p, pr)
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("search jobs", err)
	}
	return u.decorate(ctx, ident, page)
}

func (u *Jobs) Filter(ctx context.Context, ident *user.Identity, family job.Family, c search.Criteria, pr search.PageRequest) (search.Page[JobView], error) {
	if err := checkFamily(family); err != nil {
		return search.Page[JobView]{}, err
	}
	page, err := u.jobs.Search(ctx, family, search.Build(c), pr)
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("filter jobs", err)
	}
	return u.decorate(ctx, ident, page)
}

// Featured is the public landing feed: newest first, no caller state.
func (u *Jobs) Featured(ctx context.Context, family job.Family, category *job.Category, size int) ([]JobView, error) {
	pr, err := search.NewPageRequest(0, size, search.DefaultSort())
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	page, err := u.Browse(ctx, nil, family, category, pr)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// PreferredFeed floats jobs from followed companies to the top. Without any
// followed company it is the plain active feed.
func (u *Jobs) PreferredFeed(ctx context.Context, ident *user.Identity, family job.Family, pr search.PageRequest) (search.Page[JobView], error) {
	if ident == nil {
		return search.Page[JobView]{}, ErrUnauthorized
	}
	if err := checkFamily(family); err != nil {
		return search.Page[JobView]{}, err
	}
	companies, err := u.companies.ListByUser(ctx, ident.UserID)
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("load preferred companies", err)
	}

	var page search.Page[job.Job]
	if len(companies) == 0 {
		page, err = u.jobs.FindActive(ctx, family, pr)
	} else {
		page, err = u.jobs.FindPreferred(ctx, family, companies, pr)
	}
	if err != nil {
		return search.Page[JobView]{}, wrapInternal("preferred feed", err)
	}
	return u.decorate(ctx, ident, page)
}

func (u *Jobs) decorate(ctx context.Context, ident *user.Identity, page search.Page[job.Job]) (search.Page[JobView], error) {
	views, err := u.overlay.Resolve(ctx, ident, page.Items)
	if err != nil {
		u.log.Error("overlay failed", zap.Error(err))
		return search.Page[JobView]{}, err
	}
	return search.MapPage(page, views), nil
}

func checkFamily(f job.Family) error {
	if !f.Valid() {
		return invalidInput("unknown job family %q", string(f))
	}
	return nil
}

// findJob maps the repository miss to ErrJobNotFound; any other failure is
// internal.
func findJob(ctx context.Context, jobs repository.JobRepository, ref job.Ref) (job.Job, error) {
	if !ref.Valid() {
		return job.Job{}, invalidInput("invalid job reference %s", ref)
	}
	j, err := jobs.FindByID(ctx, ref.Family, ref.ID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, wrapInternal("find job", err)
	}
	return j, nil
}
