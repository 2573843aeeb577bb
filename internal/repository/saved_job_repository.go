package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
)

var (
	ErrAlreadySaved = errors.New("job already saved")
)

type SavedJobRepository interface {
	// Create inserts the saved row; a row that already exists for the same
	// user and job returns ErrAlreadySaved.
	Create(ctx context.Context, userID int64, ref job.Ref, at time.Time) (tracking.SavedJob, error)
	Delete(ctx context.Context, userID int64, ref job.Ref) (bool, error)
	Exists(ctx context.Context, userID int64, ref job.Ref) (bool, error)
	// ListByUser pages newest first. Rows whose job was deleted are left out
	// of both the page and the total.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]tracking.SavedJob, int64, error)
	// SavedAmong returns the subset of refs the user has saved, in one query.
	SavedAmong(ctx context.Context, userID int64, refs []job.Ref) (map[job.Ref]bool, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountSince(ctx context.Context, userID int64, since time.Time) (int64, error)
}

type PostgresSavedJobRepository struct {
	db database.DB
}

func NewPostgresSavedJobRepository(db database.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

func (r *PostgresSavedJobRepository) Create(ctx context.Context, userID int64, ref job.Ref, at time.Time) (tracking.SavedJob, error) {
	var savedAt time.Time
	err := r.db.QueryRow(ctx, `
INSERT INTO saved_jobs (user_id, job_family, job_id, saved_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, job_family, job_id) DO NOTHING
RETURNING saved_at`, userID, string(ref.Family), ref.ID, at).Scan(&savedAt)
	if err != nil {
		if isNoRows(err) {
			return tracking.SavedJob{}, ErrAlreadySaved
		}
		return tracking.SavedJob{}, err
	}
	return tracking.SavedJob{UserID: userID, Ref: ref, SavedAt: savedAt}, nil
}

func (r *PostgresSavedJobRepository) Delete(ctx context.Context, userID int64, ref job.Ref) (bool, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM saved_jobs WHERE user_id = $1 AND job_family = $2 AND job_id = $3`,
		userID, string(ref.Family), ref.ID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresSavedJobRepository) Exists(ctx context.Context, userID int64, ref job.Ref) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM saved_jobs WHERE user_id = $1 AND job_family = $2 AND job_id = $3)`,
		userID, string(ref.Family), ref.ID).Scan(&exists)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresSavedJobRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]tracking.SavedJob, int64, error) {
	where := `s.user_id = $1 AND ` + jobExistsClause("s")

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM saved_jobs s WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []tracking.SavedJob{}, 0, nil
	}

	rows, err := r.db.Query(ctx, `
SELECT s.job_family, s.job_id, s.saved_at
FROM saved_jobs s
WHERE `+where+`
ORDER BY s.saved_at DESC, s.id DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]tracking.SavedJob, 0, limit)
	for rows.Next() {
		var family string
		s := tracking.SavedJob{UserID: userID}
		if err := rows.Scan(&family, &s.Ref.ID, &s.SavedAt); err != nil {
			return nil, 0, err
		}
		s.Ref.Family = job.Family(family)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresSavedJobRepository) SavedAmong(ctx context.Context, userID int64, refs []job.Ref) (map[job.Ref]bool, error) {
	out := make(map[job.Ref]bool, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	families, ids := splitRefs(refs)

	rows, err := r.db.Query(ctx, `
SELECT s.job_family, s.job_id
FROM saved_jobs s
JOIN unnest($2::text[], $3::bigint[]) AS r(job_family, job_id)
  ON s.job_family = r.job_family AND s.job_id = r.job_id
WHERE s.user_id = $1`, userID, families, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var family string
		var id int64
		if err := rows.Scan(&family, &id); err != nil {
			return nil, err
		}
		out[job.Ref{Family: job.Family(family), ID: id}] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSavedJobRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM saved_jobs WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresSavedJobRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM saved_jobs WHERE user_id = $1 AND saved_at >= $2`, userID, since).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// jobExistsClause keeps only rows whose (job_family, job_id) still points at
// a job in that family's table. alias names the saved/applied table.
func jobExistsClause(alias string) string {
	parts := make([]string, 0, len(job.Families()))
	for _, f := range job.Families() {
		table, err := f.Table()
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf(
			"(%[1]s.job_family = '%[2]s' AND EXISTS (SELECT 1 FROM %[3]s j WHERE j.id = %[1]s.job_id))",
			alias, string(f), table))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func splitRefs(refs []job.Ref) ([]string, []int64) {
	families := make([]string, len(refs))
	ids := make([]int64, len(refs))
	for i, ref := range refs {
		families[i] = string(ref.Family)
		ids[i] = ref.ID
	}
	return families, ids
}
