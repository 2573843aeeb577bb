package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
)

var (
	ErrAlreadyApplied      = errors.New("already applied to job")
	ErrApplicationNotFound = errors.New("application not found")
)

type AppliedJobRepository interface {
	// Create inserts a new application; an existing one returns
	// ErrAlreadyApplied and is left untouched.
	Create(ctx context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error)
	// Upsert inserts or overwrites the status in place. applied_at keeps the
	// value from the first insert.
	Upsert(ctx context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error)
	Delete(ctx context.Context, userID int64, ref job.Ref) (bool, error)
	Find(ctx context.Context, userID int64, ref job.Ref) (tracking.AppliedJob, error)
	// ListByUser filters by statuses when the slice is non-empty. Rows whose
	// job was deleted are left out of both the page and the total.
	ListByUser(ctx context.Context, userID int64, statuses []tracking.Status, limit, offset int) ([]tracking.AppliedJob, int64, error)
	AppliedAmong(ctx context.Context, userID int64, refs []job.Ref) (map[job.Ref]tracking.AppliedJob, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, userID int64) (map[tracking.Status]int64, error)
}

type PostgresAppliedJobRepository struct {
	db database.DB
}

func NewPostgresAppliedJobRepository(db database.DB) *PostgresAppliedJobRepository {
	return &PostgresAppliedJobRepository{db: db}
}

func (r *PostgresAppliedJobRepository) Create(ctx context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error) {
	a := tracking.AppliedJob{UserID: userID, Ref: ref}
	var st string
	err := r.db.QueryRow(ctx, `
INSERT INTO applied_jobs (user_id, job_family, job_id, status, applied_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, job_family, job_id) DO NOTHING
RETURNING status, applied_at`, userID, string(ref.Family), ref.ID, string(status), at).Scan(&st, &a.AppliedAt)
	if err != nil {
		if isNoRows(err) {
			return tracking.AppliedJob{}, ErrAlreadyApplied
		}
		return tracking.AppliedJob{}, err
	}
	a.Status = tracking.Status(st)
	return a, nil
}

func (r *PostgresAppliedJobRepository) Upsert(ctx context.Context, userID int64, ref job.Ref, status tracking.Status, at time.Time) (tracking.AppliedJob, error) {
	a := tracking.AppliedJob{UserID: userID, Ref: ref}
	var st string
	err := r.db.QueryRow(ctx, `
INSERT INTO applied_jobs (user_id, job_family, job_id, status, applied_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, job_family, job_id) DO UPDATE SET status = EXCLUDED.status
RETURNING status, applied_at`, userID, string(ref.Family), ref.ID, string(status), at).Scan(&st, &a.AppliedAt)
	if err != nil {
		return tracking.AppliedJob{}, err
	}
	a.Status = tracking.Status(st)
	return a, nil
}

func (r *PostgresAppliedJobRepository) Delete(ctx context.Context, userID int64, ref job.Ref) (bool, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM applied_jobs WHERE user_id = $1 AND job_family = $2 AND job_id = $3`,
		userID, string(ref.Family), ref.ID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresAppliedJobRepository) Find(ctx context.Context, userID int64, ref job.Ref) (tracking.AppliedJob, error) {
	a := tracking.AppliedJob{UserID: userID, Ref: ref}
	var st string
	err := r.db.QueryRow(ctx, `
SELECT status, applied_at FROM applied_jobs
WHERE user_id = $1 AND job_family = $2 AND job_id = $3`, userID, string(ref.Family), ref.ID).Scan(&st, &a.AppliedAt)
	if err != nil {
		if isNoRows(err) {
			return tracking.AppliedJob{}, ErrApplicationNotFound
		}
		return tracking.AppliedJob{}, err
	}
	a.Status = tracking.Status(st)
	return a, nil
}

func (r *PostgresAppliedJobRepository) ListByUser(ctx context.Context, userID int64, statuses []tracking.Status, limit, offset int) ([]tracking.AppliedJob, int64, error) {
	where := `a.user_id = $1 AND ` + jobExistsClause("a")
	args := []any{userID}
	if len(statuses) > 0 {
		where += ` AND a.status = ANY($2)`
		args = append(args, statusStrings(statuses))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applied_jobs a WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []tracking.AppliedJob{}, 0, nil
	}

	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, `
SELECT a.job_family, a.job_id, a.status, a.applied_at
FROM applied_jobs a
WHERE `+where+`
ORDER BY a.applied_at DESC, a.id DESC
LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]tracking.AppliedJob, 0, limit)
	for rows.Next() {
		a, err := scanApplied(rows, userID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresAppliedJobRepository) AppliedAmong(ctx context.Context, userID int64, refs []job.Ref) (map[job.Ref]tracking.AppliedJob, error) {
	out := make(map[job.Ref]tracking.AppliedJob, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	families, ids := splitRefs(refs)

	rows, err := r.db.Query(ctx, `
SELECT a.job_family, a.job_id, a.status, a.applied_at
FROM applied_jobs a
JOIN unnest($2::text[], $3::bigint[]) AS r(job_family, job_id)
  ON a.job_family = r.job_family AND a.job_id = r.job_id
WHERE a.user_id = $1`, userID, families, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplied(rows, userID)
		if err != nil {
			return nil, err
		}
		out[a.Ref] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAppliedJobRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applied_jobs WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresAppliedJobRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applied_jobs WHERE user_id = $1 AND applied_at >= $2`, userID, since).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresAppliedJobRepository) CountByStatus(ctx context.Context, userID int64) (map[tracking.Status]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applied_jobs WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[tracking.Status]int64{}
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[tracking.Status(st)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplied(row database.Row, userID int64) (tracking.AppliedJob, error) {
	a := tracking.AppliedJob{UserID: userID}
	var family, st string
	if err := row.Scan(&family, &a.Ref.ID, &st, &a.AppliedAt); err != nil {
		return tracking.AppliedJob{}, err
	}
	a.Ref.Family = job.Family(family)
	a.Status = tracking.Status(st)
	return a, nil
}

func statusStrings(in []tracking.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
