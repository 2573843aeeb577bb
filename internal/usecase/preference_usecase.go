package usecase

import (
	"context"
	"strings"

	"job-tracker/internal/domain/preference"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/repository"

	"go.uber.org/zap"
)

// CompanyRegistry is the set of companies a user may follow.
type CompanyRegistry interface {
	IsValidCompany(name string) bool
	ListCompanies() []string
}

type PreferencesUsecase interface {
	GetPreferredCompanies(ctx context.Context, ident *user.Identity) ([]string, error)
	SetPreferredCompanies(ctx context.Context, ident *user.Identity, companies []string) ([]string, error)
	GetJobPreferences(ctx context.Context, ident *user.Identity) (preference.JobPreferences, error)
	SaveJobPreferences(ctx context.Context, ident *user.Identity, upd preference.Update) (preference.JobPreferences, error)
	ListCompanies() []string
}

// The followed flag shows up in tracked listings.
var companyNamespaces = []cache.Namespace{
	cache.NamespaceSavedJobs,
	cache.NamespaceAppliedJobs,
}

type Preferences struct {
	companies repository.PreferredCompanyRepository
	jobPrefs  repository.JobPreferencesRepository
	registry  CompanyRegistry
	cache     cacheAside
	log       *zap.Logger
}

func NewPreferencesUsecase(
	companies repository.PreferredCompanyRepository,
	jobPrefs repository.JobPreferencesRepository,
	registry CompanyRegistry,
	c Cache,
	log *zap.Logger,
) *Preferences {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("preferences")
	return &Preferences{
		companies: companies,
		jobPrefs:  jobPrefs,
		registry:  registry,
		cache:     newCacheAside(c, log),
		log:       log,
	}
}

func (u *Preferences) GetPreferredCompanies(ctx context.Context, ident *user.Identity) ([]string, error) {
	if ident == nil {
		return nil, ErrUnauthorized
	}
	out, err := u.companies.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, wrapInternal("list preferred companies", err)
	}
	return out, nil
}

// SetPreferredCompanies replaces the followed list. Names unknown to the
// registry are dropped; the stored list is returned.
func (u *Preferences) SetPreferredCompanies(ctx context.Context, ident *user.Identity, companies []string) ([]string, error) {
	if ident == nil {
		return nil, ErrUnauthorized
	}

	seen := make(map[string]struct{}, len(companies))
	kept := make([]string, 0, len(companies))
	for _, c := range companies {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if u.registry != nil && !u.registry.IsValidCompany(c) {
			u.log.Debug("dropping unknown company", zap.String("company", c), zap.Int64("user_id", ident.UserID))
			continue
		}
		kept = append(kept, c)
	}

	if err := u.companies.Replace(ctx, ident.UserID, kept); err != nil {
		return nil, wrapInternal("replace preferred companies", err)
	}
	u.cache.invalidate(ctx, ident.UserID, companyNamespaces...)

	return u.GetPreferredCompanies(ctx, ident)
}

func (u *Preferences) GetJobPreferences(ctx context.Context, ident *user.Identity) (preference.JobPreferences, error) {
	if ident == nil {
		return preference.JobPreferences{}, ErrUnauthorized
	}
	p, _, err := u.jobPrefs.Find(ctx, ident.UserID)
	if err != nil {
		return preference.JobPreferences{}, wrapInternal("get job preferences", err)
	}
	return p, nil
}

func (u *Preferences) SaveJobPreferences(ctx context.Context, ident *user.Identity, upd preference.Update) (preference.JobPreferences, error) {
	if ident == nil {
		return preference.JobPreferences{}, ErrUnauthorized
	}
	current, err := u.GetJobPreferences(ctx, ident)
	if err != nil {
		return preference.JobPreferences{}, err
	}
	saved, err := u.jobPrefs.Save(ctx, upd.ApplyTo(current))
	if err != nil {
		return preference.JobPreferences{}, wrapInternal("save job preferences", err)
	}
	return saved, nil
}

func (u *Preferences) ListCompanies() []string {
	if u.registry == nil {
		return []string{}
	}
	return u.registry.ListCompanies()
}
