package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/preference"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/repository"
	"job-tracker/internal/search"
)

// store backs every fake repository with plain slices and maps and counts
// calls per method so tests can assert how often storage was hit.
type store struct {
	mu        sync.Mutex
	jobs      []job.Job
	saved     map[int64][]tracking.SavedJob
	applied   map[int64][]tracking.AppliedJob
	companies map[int64][]string
	prefs     map[int64]preference.JobPreferences
	calls     map[string]int
}

func newStore(jobs ...job.Job) *store {
	return &store{
		jobs:      jobs,
		saved:     map[int64][]tracking.SavedJob{},
		applied:   map[int64][]tracking.AppliedJob{},
		companies: map[int64][]string{},
		prefs:     map[int64]preference.JobPreferences{},
		calls:     map[string]int{},
	}
}

func (s *store) hit(name string) {
	s.calls[name]++
}

func (s *store) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// hasJob reports whether ref still resolves; callers hold s.mu.
func (s *store) hasJob(ref job.Ref) bool {
	for _, j := range s.jobs {
		if j.Family == ref.Family && j.ID == ref.ID {
			return true
		}
	}
	return false
}

func (s *store) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func pageOf(items []job.Job, pr search.PageRequest) search.Page[job.Job] {
	sort.SliceStable(items, func(i, j int) bool { return pr.Sort.Less(items[i], items[j]) })
	total := int64(len(items))
	start := pr.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + pr.Limit()
	if end > len(items) {
		end = len(items)
	}
	return search.NewPage(items[start:end], pr, total)
}

type fakeJobs struct{ s *store }

func (f fakeJobs) where(family job.Family, p search.Predicate) []job.Job {
	var out []job.Job
	for _, j := range f.s.jobs {
		if j.Family == family && p.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

func (f fakeJobs) FindActiveByCategory(_ context.Context, family job.Family, c job.Category, pr search.PageRequest) (search.Page[job.Job], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindActiveByCategory")
	return pageOf(f.where(family, search.And(search.Active(), search.InCategory(c))), pr), nil
}

func (f fakeJobs) FindActive(_ context.Context, family job.Family, pr search.PageRequest) (search.Page[job.Job], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindActive")
	return pageOf(f.where(family, search.Active()), pr), nil
}

func (f fakeJobs) FindByExternalID(_ context.Context, family job.Family, externalID string) (job.Job, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindByExternalID")
	for _, j := range f.s.jobs {
		if j.Family == family && j.ExternalID == externalID {
			return j, nil
		}
	}
	return job.Job{}, repository.ErrJobNotFound
}

func (f fakeJobs) FindByID(_ context.Context, family job.Family, id int64) (job.Job, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindByID")
	for _, j := range f.s.jobs {
		if j.Family == family && j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, repository.ErrJobNotFound
}

func (f fakeJobs) FindByRefs(_ context.Context, refs []job.Ref) (map[job.Ref]job.Job, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindByRefs")
	want := make(map[job.Ref]bool, len(refs))
	for _, r := range refs {
		want[r] = true
	}
	out := map[job.Ref]job.Job{}
	for _, j := range f.s.jobs {
		if want[j.Ref()] {
			out[j.Ref()] = j
		}
	}
	return out, nil
}

func (f fakeJobs) Search(_ context.Context, family job.Family, p search.Predicate, pr search.PageRequest) (search.Page[job.Job], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.Search")
	return pageOf(f.where(family, p), pr), nil
}

func (f fakeJobs) FindPreferred(_ context.Context, family job.Family, companies []string, pr search.PageRequest) (search.Page[job.Job], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("jobs.FindPreferred")
	pref := map[string]bool{}
	for _, c := range companies {
		pref[c] = true
	}
	items := f.where(family, search.Active())
	sort.SliceStable(items, func(i, j int) bool { return pr.Sort.Less(items[i], items[j]) })
	sort.SliceStable(items, func(i, j int) bool {
		return pref[strings.TrimSpace(items[i].Company)] && !pref[strings.TrimSpace(items[j].Company)]
	})

	total := int64(len(items))
	start := pr.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + pr.Limit()
	if end > len(items) {
		end = len(items)
	}
	return search.NewPage(items[start:end], pr, total), nil
}

func (f fakeJobs) inFamilies(families []job.Family, j job.Job) bool {
	if len(families) == 0 {
		return true
	}
	for _, fam := range families {
		if j.Family == fam {
			return true
		}
	}
	return false
}

func (f fakeJobs) CountAll(_ context.Context, families []job.Family) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, j := range f.s.jobs {
		if f.inFamilies(families, j) {
			n++
		}
	}
	return n, nil
}

func (f fakeJobs) CountActive(_ context.Context, families []job.Family) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, j := range f.s.jobs {
		if f.inFamilies(families, j) && j.IsActive {
			n++
		}
	}
	return n, nil
}

func (f fakeJobs) CountDistinctActiveCompanies(_ context.Context, families []job.Family) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	seen := map[string]bool{}
	for _, j := range f.s.jobs {
		if f.inFamilies(families, j) && j.IsActive {
			seen[j.Company] = true
		}
	}
	return int64(len(seen)), nil
}

func (f fakeJobs) CountActiveByCategory(_ context.Context, families []job.Family) (map[string]int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := map[string]int64{}
	for _, j := range f.s.jobs {
		if f.inFamilies(families, j) && j.IsActive {
			out[string(j.Category)]++
		}
	}
	return out, nil
}

func (f fakeJobs) CountActiveByEmploymentType(_ context.Context, families []job.Family) (map[string]int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := map[string]int64{}
	for _, j := range f.s.jobs {
		if f.inFamilies(families, j) && j.IsActive && j.EmploymentType != "" {
			out[string(j.EmploymentType)]++
		}
	}
	return out, nil
}

type fakeSaved struct{ s *store }

func (f fakeSaved) Create(_ context.Context, userID int64, ref job.Ref, at time.Time) (tracking.SavedJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.Create")
	for _, r := range f.s.saved[userID] {
		if r.Ref == ref {
			return tracking.SavedJob{}, repository.ErrAlreadySaved
		}
	}
	row := tracking.SavedJob{UserID: userID, Ref: ref, SavedAt: at}
	f.s.saved[userID] = append(f.s.saved[userID], row)
	return row, nil
}

func (f fakeSaved) Delete(_ context.Context, userID int64, ref job.Ref) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.Delete")
	rows := f.s.saved[userID]
	for i, r := range rows {
		if r.Ref == ref {
			f.s.saved[userID] = append(rows[:i:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeSaved) Exists(_ context.Context, userID int64, ref job.Ref) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.Exists")
	for _, r := range f.s.saved[userID] {
		if r.Ref == ref {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeSaved) ListByUser(_ context.Context, userID int64, limit, offset int) ([]tracking.SavedJob, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.ListByUser")
	var rows []tracking.SavedJob
	for _, r := range f.s.saved[userID] {
		if f.s.hasJob(r.Ref) {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SavedAt.After(rows[j].SavedAt) })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (f fakeSaved) SavedAmong(_ context.Context, userID int64, refs []job.Ref) (map[job.Ref]bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.SavedAmong")
	want := map[job.Ref]bool{}
	for _, r := range refs {
		want[r] = true
	}
	out := map[job.Ref]bool{}
	for _, r := range f.s.saved[userID] {
		if want[r.Ref] {
			out[r.Ref] = true
		}
	}
	return out, nil
}

func (f fakeSaved) CountByUser(_ context.Context, userID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("saved.CountByUser")
	return int64(len(f.s.saved[userID])), nil
}

func (f fakeSaved) CountSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, r := range f.s.saved[userID] {
		if !r.SavedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeApplied struct{ s *store }

func (f fakeApplied) find(userID int64, ref job.Ref) int {
	for i, r := range f.s.applied[userID] {
		if r.Ref == ref {
			return i
		}
	}
	return -1
}

func (f fakeApplied) Create(_ context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.Create")
	if f.find(userID, ref) >= 0 {
		return tracking.AppliedJob{}, repository.ErrAlreadyApplied
	}
	row := tracking.AppliedJob{UserID: userID, Ref: ref, Status: status, AppliedAt: at}
	f.s.applied[userID] = append(f.s.applied[userID], row)
	return row, nil
}

func (f fakeApplied) Upsert(_ context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.Upsert")
	if i := f.find(userID, ref); i >= 0 {
		f.s.applied[userID][i].Status = status
		return f.s.applied[userID][i], nil
	}
	row := tracking.AppliedJob{UserID: userID, Ref: ref, Status: status, AppliedAt: at}
	f.s.applied[userID] = append(f.s.applied[userID], row)
	return row, nil
}

func (f fakeApplied) Delete(_ context.Context, userID int64, ref job.Ref) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.Delete")
	i := f.find(userID, ref)
	if i < 0 {
		return false, nil
	}
	rows := f.s.applied[userID]
	f.s.applied[userID] = append(rows[:i:i], rows[i+1:]...)
	return true, nil
}

func (f fakeApplied) Find(_ context.Context, userID int64, ref job.Ref) (tracking.AppliedJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.Find")
	if i := f.find(userID, ref); i >= 0 {
		return f.s.applied[userID][i], nil
	}
	return tracking.AppliedJob{}, repository.ErrApplicationNotFound
}

func (f fakeApplied) ListByUser(_ context.Context, userID int64, statuses []tracking.Status, limit, offset int) ([]tracking.AppliedJob, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.ListByUser")
	want := map[tracking.Status]bool{}
	for _, st := range statuses {
		want[st] = true
	}
	var rows []tracking.AppliedJob
	for _, r := range f.s.applied[userID] {
		if (len(want) == 0 || want[r.Status]) && f.s.hasJob(r.Ref) {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AppliedAt.After(rows[j].AppliedAt) })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (f fakeApplied) AppliedAmong(_ context.Context, userID int64, refs []job.Ref) (map[job.Ref]tracking.AppliedJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.AppliedAmong")
	want := map[job.Ref]bool{}
	for _, r := range refs {
		want[r] = true
	}
	out := map[job.Ref]tracking.AppliedJob{}
	for _, r := range f.s.applied[userID] {
		if want[r.Ref] {
			out[r.Ref] = r
		}
	}
	return out, nil
}

func (f fakeApplied) CountByUser(_ context.Context, userID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("applied.CountByUser")
	return int64(len(f.s.applied[userID])), nil
}

func (f fakeApplied) CountSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, r := range f.s.applied[userID] {
		if !r.AppliedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f fakeApplied) CountByStatus(_ context.Context, userID int64) (map[tracking.Status]int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := map[tracking.Status]int64{}
	for _, r := range f.s.applied[userID] {
		out[r.Status]++
	}
	return out, nil
}

type fakeCompanies struct{ s *store }

func (f fakeCompanies) ListByUser(_ context.Context, userID int64) ([]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("companies.ListByUser")
	out := append([]string{}, f.s.companies[userID]...)
	sort.Strings(out)
	return out, nil
}

func (f fakeCompanies) Replace(_ context.Context, userID int64, companies []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hit("companies.Replace")
	f.s.companies[userID] = append([]string{}, companies...)
	return nil
}

type fakeJobPrefs struct{ s *store }

func (f fakeJobPrefs) Find(_ context.Context, userID int64) (preference.JobPreferences, bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.prefs[userID]
	if !ok {
		return preference.Default(userID), false, nil
	}
	return p, true, nil
}

func (f fakeJobPrefs) Save(_ context.Context, p preference.JobPreferences) (preference.JobPreferences, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = &now
	f.s.prefs[p.UserID] = p
	return p, nil
}

func window[T any](rows []T, limit, offset int) []T {
	if offset > len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// spyCache is an in-memory Cache that records invalidations.
type spyCache struct {
	mem         *cache.Memory
	invalidated []string
}

func newSpyCache() *spyCache {
	return &spyCache{mem: cache.NewMemory(100, time.Minute)}
}

func (c *spyCache) GetJSON(ctx context.Context, key cache.Key, out any) (bool, error) {
	return c.mem.GetJSON(ctx, key, out)
}

func (c *spyCache) SetJSON(ctx context.Context, key cache.Key, value any) error {
	return c.mem.SetJSON(ctx, key, value)
}

func (c *spyCache) InvalidateNamespace(ctx context.Context, ns cache.Namespace, userID int64) error {
	c.invalidated = append(c.invalidated, string(ns))
	return c.mem.InvalidateNamespace(ctx, ns, userID)
}

func (c *spyCache) invalidatedString() string {
	return strings.Join(c.invalidated, ",")
}

type recordingNotifier struct {
	events []OverlayEvent
}

func (n *recordingNotifier) NotifyUser(_ int64, event any) {
	if ev, ok := event.(OverlayEvent); ok {
		n.events = append(n.events, ev)
	}
}

type fixture struct {
	store    *store
	cache    *spyCache
	notifier *recordingNotifier
	overlay  *OverlayResolver
	jobs     *Jobs
	tracking *Tracking
	stats    *Stats
}

func newFixture(jobs ...job.Job) *fixture {
	s := newStore(jobs...)
	c := newSpyCache()
	n := &recordingNotifier{}
	ov := NewOverlayResolver(fakeSaved{s}, fakeApplied{s}, fakeCompanies{s})
	return &fixture{
		store:    s,
		cache:    c,
		notifier: n,
		overlay:  ov,
		jobs:     NewJobsUsecase(fakeJobs{s}, fakeCompanies{s}, ov, nil),
		tracking: NewTrackingUsecase(fakeJobs{s}, fakeSaved{s}, fakeApplied{s}, ov, c, n, nil),
		stats:    NewStatsUsecase(fakeJobs{s}, fakeSaved{s}, fakeApplied{s}, c, time.Second, nil),
	}
}

func ident(id int64) *user.Identity {
	return &user.Identity{UserID: id, Username: "u", Role: user.RoleUser}
}

func mkJob(family job.Family, id int64, company, title string, posted time.Time) job.Job {
	p := posted
	return job.Job{
		ID:             id,
		Family:         family,
		ExternalID:     string(family) + "-" + title,
		Category:       job.CategoryDiscover,
		Source:         job.SourceLinkedIn,
		Company:        company,
		Title:          title,
		EmploymentType: job.EmploymentFullTime,
		PostedAt:       &p,
		IsActive:       true,
	}
}

func mustPage(t interface{ Fatalf(string, ...any) }, page, size int) search.PageRequest {
	pr, err := search.NewPageRequest(page, size, search.DefaultSort())
	if err != nil {
		t.Fatalf("page request: %v", err)
	}
	return pr
}
