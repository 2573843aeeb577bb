package usecase

import (
	"context"
	"errors"
	"testing"

	"job-tracker/internal/domain/preference"
	"job-tracker/internal/infrastructure/company"
)

func newPreferences(f *fixture, names ...string) *Preferences {
	return NewPreferencesUsecase(fakeCompanies{f.store}, fakeJobPrefs{f.store}, company.New(names), f.cache, nil)
}

func TestPreferences_SetCompaniesDropsUnknownAndDuplicates(t *testing.T) {
	f := newFixture()
	uc := newPreferences(f, "Acme", "Beta", "Gamma")

	got, err := uc.SetPreferredCompanies(context.Background(), ident(1), []string{" Beta", "Acme", "Nope", "Beta", ""})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0] != "Acme" || got[1] != "Beta" {
		t.Fatalf("unexpected companies %v", got)
	}
	if s := f.cache.invalidatedString(); s != "savedJobs,appliedJobs" {
		t.Fatalf("unexpected invalidations %q", s)
	}

	got, err = uc.SetPreferredCompanies(context.Background(), ident(1), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestPreferences_JobPreferencesDefaultAndPartialUpdate(t *testing.T) {
	f := newFixture()
	uc := newPreferences(f)
	ctx := context.Background()

	p, err := uc.GetJobPreferences(ctx, ident(4))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !p.EmailEnabled || len(p.JobTitles) != 0 || p.UpdatedAt != nil {
		t.Fatalf("unexpected default %+v", p)
	}

	saved, err := uc.SaveJobPreferences(ctx, ident(4), preference.Update{JobTitles: []string{"Backend Engineer"}, Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved.UpdatedAt == nil {
		t.Fatalf("expected updatedAt")
	}

	off := false
	saved, err = uc.SaveJobPreferences(ctx, ident(4), preference.Update{EmailEnabled: &off})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved.EmailEnabled || len(saved.JobTitles) != 1 || saved.Skills[0] != "Go" {
		t.Fatalf("partial update lost fields: %+v", saved)
	}
}

func TestPreferences_Anonymous(t *testing.T) {
	uc := newPreferences(newFixture())
	if _, err := uc.GetPreferredCompanies(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.SaveJobPreferences(context.Background(), nil, preference.Update{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
