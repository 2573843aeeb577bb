package repository

import (
	"context"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/preference"
)

type PreferredCompanyRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]string, error)
	// Replace swaps the whole list in one transaction.
	Replace(ctx context.Context, userID int64, companies []string) error
}

type JobPreferencesRepository interface {
	// Find reports false when the user has never saved preferences.
	Find(ctx context.Context, userID int64) (preference.JobPreferences, bool, error)
	Save(ctx context.Context, p preference.JobPreferences) (preference.JobPreferences, error)
}

type PostgresPreferenceRepository struct {
	db database.DB
}

func NewPostgresPreferenceRepository(db database.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT company_name FROM user_preferred_companies WHERE user_id = $1 ORDER BY company_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPreferenceRepository) Replace(ctx context.Context, userID int64, companies []string) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_preferred_companies WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if len(companies) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `
INSERT INTO user_preferred_companies (user_id, company_name)
SELECT $1, name FROM unnest($2::text[]) AS name
ON CONFLICT (user_id, company_name) DO NOTHING`, userID, companies)
		return err
	})
}

func (r *PostgresPreferenceRepository) Find(ctx context.Context, userID int64) (preference.JobPreferences, bool, error) {
	p := preference.JobPreferences{UserID: userID}
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, `
SELECT job_titles, skills, role_types, email_enabled, updated_at
FROM user_job_preferences WHERE user_id = $1`, userID).
		Scan(&p.JobTitles, &p.Skills, &p.RoleTypes, &p.EmailEnabled, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return preference.Default(userID), false, nil
		}
		return preference.JobPreferences{}, false, err
	}
	p.UpdatedAt = &updatedAt
	return p, true, nil
}

func (r *PostgresPreferenceRepository) Save(ctx context.Context, p preference.JobPreferences) (preference.JobPreferences, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, `
INSERT INTO user_job_preferences (user_id, job_titles, skills, role_types, email_enabled, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id) DO UPDATE SET
	job_titles = EXCLUDED.job_titles,
	skills = EXCLUDED.skills,
	role_types = EXCLUDED.role_types,
	email_enabled = EXCLUDED.email_enabled,
	updated_at = now()
RETURNING updated_at`, p.UserID, nonNil(p.JobTitles), nonNil(p.Skills), nonNil(p.RoleTypes), p.EmailEnabled).Scan(&updatedAt)
	if err != nil {
		return preference.JobPreferences{}, err
	}
	p.UpdatedAt = &updatedAt
	return p, nil
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
