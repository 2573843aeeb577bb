package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/search"

	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	FindActiveByCategory(ctx context.Context, family job.Family, category job.Category, pr search.PageRequest) (search.Page[job.Job], error)
	FindActive(ctx context.Context, family job.Family, pr search.PageRequest) (search.Page[job.Job], error)
	FindByExternalID(ctx context.Context, family job.Family, externalID string) (job.Job, error)
	FindByID(ctx context.Context, family job.Family, id int64) (job.Job, error)
	// FindByRefs hydrates jobs across families. Refs with no row are left
	// out of the map.
	FindByRefs(ctx context.Context, refs []job.Ref) (map[job.Ref]job.Job, error)
	Search(ctx context.Context, family job.Family, p search.Predicate, pr search.PageRequest) (search.Page[job.Job], error)
	// FindPreferred lists active jobs with the given companies first.
	FindPreferred(ctx context.Context, family job.Family, companies []string, pr search.PageRequest) (search.Page[job.Job], error)

	CountAll(ctx context.Context, families []job.Family) (int64, error)
	CountActive(ctx context.Context, families []job.Family) (int64, error)
	CountDistinctActiveCompanies(ctx context.Context, families []job.Family) (int64, error)
	CountActiveByCategory(ctx context.Context, families []job.Family) (map[string]int64, error)
	CountActiveByEmploymentType(ctx context.Context, families []job.Family) (map[string]int64, error)
}

const jobColumns = `id, external_id, job_category, source, company, company_logo, title, location, department,
	employment_type, description, apply_url, posted_at, is_remote, experience_level, min_salary, max_salary,
	is_active, country_code, created_at, updated_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindActiveByCategory(ctx context.Context, family job.Family, category job.Category, pr search.PageRequest) (search.Page[job.Job], error) {
	return r.Search(ctx, family, search.And(search.Active(), search.InCategory(category)), pr)
}

func (r *PostgresJobRepository) FindActive(ctx context.Context, family job.Family, pr search.PageRequest) (search.Page[job.Job], error) {
	return r.Search(ctx, family, search.Active(), pr)
}

func (r *PostgresJobRepository) FindByExternalID(ctx context.Context, family job.Family, externalID string) (job.Job, error) {
	table, err := family.Table()
	if err != nil {
		return job.Job{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM `+table+` WHERE external_id = $1`, externalID)
	return scanJob(row, family)
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, family job.Family, id int64) (job.Job, error) {
	table, err := family.Table()
	if err != nil {
		return job.Job{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM `+table+` WHERE id = $1`, id)
	return scanJob(row, family)
}

func (r *PostgresJobRepository) FindByRefs(ctx context.Context, refs []job.Ref) (map[job.Ref]job.Job, error) {
	out := make(map[job.Ref]job.Job, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	idsByFamily := map[job.Family][]int64{}
	for _, ref := range refs {
		if !ref.Valid() {
			return nil, fmt.Errorf("%w: %q", job.ErrUnknownFamily, string(ref.Family))
		}
		idsByFamily[ref.Family] = append(idsByFamily[ref.Family], ref.ID)
	}

	for _, family := range job.Families() {
		ids := idsByFamily[family]
		if len(ids) == 0 {
			continue
		}
		table, _ := family.Table()
		rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM `+table+` WHERE id = ANY($1)`, ids)
		if err != nil {
			return nil, err
		}
		items, err := collectJobs(rows, family)
		if err != nil {
			return nil, err
		}
		for _, j := range items {
			out[j.Ref()] = j
		}
	}
	return out, nil
}

// Search runs one COUNT and one page query over the same rendered predicate.
func (r *PostgresJobRepository) Search(ctx context.Context, family job.Family, p search.Predicate, pr search.PageRequest) (search.Page[job.Job], error) {
	table, err := family.Table()
	if err != nil {
		return search.Page[job.Job]{}, err
	}
	if p == nil {
		p = search.Active()
	}

	args := search.NewArgs()
	where := p.SQL(args)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+where, args.Values()...).Scan(&total); err != nil {
		return search.Page[job.Job]{}, err
	}
	if total == 0 || int64(pr.Offset()) >= total {
		return search.NewPage[job.Job](nil, pr, total), nil
	}

	limit := args.Add(pr.Limit())
	offset := args.Add(pr.Offset())
	q := `SELECT ` + jobColumns + ` FROM ` + table + ` WHERE ` + where +
		` ORDER BY ` + pr.Sort.OrderBy() + ` LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.db.Query(ctx, q, args.Values()...)
	if err != nil {
		return search.Page[job.Job]{}, err
	}
	items, err := collectJobs(rows, family)
	if err != nil {
		return search.Page[job.Job]{}, err
	}
	return search.NewPage(items, pr, total), nil
}

func (r *PostgresJobRepository) FindPreferred(ctx context.Context, family job.Family, companies []string, pr search.PageRequest) (search.Page[job.Job], error) {
	if len(companies) == 0 {
		return r.FindActive(ctx, family, pr)
	}
	table, err := family.Table()
	if err != nil {
		return search.Page[job.Job]{}, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE is_active = TRUE`).Scan(&total); err != nil {
		return search.Page[job.Job]{}, err
	}
	if total == 0 || int64(pr.Offset()) >= total {
		return search.NewPage[job.Job](nil, pr, total), nil
	}

	q := `SELECT ` + jobColumns + ` FROM ` + table + ` WHERE is_active = TRUE
	ORDER BY CASE WHEN btrim(company) = ANY($1) THEN 0 ELSE 1 END, ` + pr.Sort.OrderBy() + `
	LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, q, companies, pr.Limit(), pr.Offset())
	if err != nil {
		return search.Page[job.Job]{}, err
	}
	items, err := collectJobs(rows, family)
	if err != nil {
		return search.Page[job.Job]{}, err
	}
	return search.NewPage(items, pr, total), nil
}

func (r *PostgresJobRepository) CountAll(ctx context.Context, families []job.Family) (int64, error) {
	from, err := unionAll(families, "1 AS one", "")
	if err != nil {
		return 0, err
	}
	return r.scanCount(ctx, `SELECT COUNT(*) FROM (`+from+`) t`)
}

func (r *PostgresJobRepository) CountActive(ctx context.Context, families []job.Family) (int64, error) {
	from, err := unionAll(families, "1 AS one", "is_active = TRUE")
	if err != nil {
		return 0, err
	}
	return r.scanCount(ctx, `SELECT COUNT(*) FROM (`+from+`) t`)
}

func (r *PostgresJobRepository) CountDistinctActiveCompanies(ctx context.Context, families []job.Family) (int64, error) {
	from, err := unionAll(families, "company", "is_active = TRUE")
	if err != nil {
		return 0, err
	}
	return r.scanCount(ctx, `SELECT COUNT(DISTINCT company) FROM (`+from+`) t`)
}

func (r *PostgresJobRepository) CountActiveByCategory(ctx context.Context, families []job.Family) (map[string]int64, error) {
	from, err := unionAll(families, "job_category AS k", "is_active = TRUE")
	if err != nil {
		return nil, err
	}
	return r.scanGrouped(ctx, `SELECT k, COUNT(*) FROM (`+from+`) t GROUP BY k`)
}

// CountActiveByEmploymentType leaves out jobs without an employment type.
func (r *PostgresJobRepository) CountActiveByEmploymentType(ctx context.Context, families []job.Family) (map[string]int64, error) {
	from, err := unionAll(families, "employment_type AS k", "is_active = TRUE AND employment_type IS NOT NULL")
	if err != nil {
		return nil, err
	}
	return r.scanGrouped(ctx, `SELECT k, COUNT(*) FROM (`+from+`) t GROUP BY k`)
}

func (r *PostgresJobRepository) scanCount(ctx context.Context, q string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresJobRepository) scanGrouped(ctx context.Context, q string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// unionAll builds "SELECT cols FROM t1 [WHERE ..] UNION ALL SELECT ..." over
// the family tables. An empty family set means every family.
func unionAll(families []job.Family, cols, where string) (string, error) {
	if len(families) == 0 {
		families = job.Families()
	}
	seen := map[job.Family]bool{}
	parts := make([]string, 0, len(families))
	for _, f := range families {
		if seen[f] {
			continue
		}
		seen[f] = true
		table, err := f.Table()
		if err != nil {
			return "", err
		}
		q := `SELECT ` + cols + ` FROM ` + table
		if where != "" {
			q += ` WHERE ` + where
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " UNION ALL "), nil
}

func collectJobs(rows database.Rows, family job.Family) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows, family)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row, family job.Family) (job.Job, error) {
	var (
		j               job.Job
		category        string
		source          string
		companyLogo     *string
		location        *string
		department      *string
		employmentType  *string
		description     *string
		experienceLevel *string
		countryCode     *string
	)
	err := row.Scan(
		&j.ID, &j.ExternalID, &category, &source, &j.Company, &companyLogo, &j.Title, &location, &department,
		&employmentType, &description, &j.ApplyURL, &j.PostedAt, &j.IsRemote, &experienceLevel, &j.MinSalary, &j.MaxSalary,
		&j.IsActive, &countryCode, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}

	j.Family = family
	j.Category = job.Category(category)
	j.Source = job.Source(source)
	j.CompanyLogo = deref(companyLogo)
	j.Location = deref(location)
	j.Department = deref(department)
	j.EmploymentType = job.EmploymentType(deref(employmentType))
	j.Description = deref(description)
	j.ExperienceLevel = job.ExperienceLevel(deref(experienceLevel))
	j.CountryCode = deref(countryCode)
	return j, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}
