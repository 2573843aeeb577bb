package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userSelect = `
SELECT u.id, u.username, u.email, u.phone, u.password_hash, u.email_verified, u.phone_verified,
	u.account_enabled, u.account_locked, u.role, u.auth_provider, u.last_login_at, u.created_at, u.updated_at,
	p.user_id IS NOT NULL, p.name, p.picture_url, p.years_of_experience, p.current_location,
	p.open_to_work_types, p.skills, p.open_to_locations, p.social_links, p.updated_at
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	err := r.db.QueryRow(ctx, `
INSERT INTO users (username, email, phone, password_hash, email_verified, phone_verified,
	account_enabled, account_locked, role, auth_provider)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.Phone, u.PasswordHash, u.EmailVerified, u.PhoneVerified,
		u.AccountEnabled, u.AccountLocked, string(u.Role), string(u.AuthProvider),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrDuplicateLogin
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
}

func (r *UserRepository) GetUserByLogin(ctx context.Context, identifier string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+`
WHERE u.username = $1 OR u.email = $1 OR u.phone = $1
ORDER BY u.id
LIMIT 1`, identifier))
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, username string, email, phone *string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
SELECT EXISTS(
	SELECT 1 FROM users
	WHERE username = $1
		OR ($2::text IS NOT NULL AND email = $2)
		OR ($3::text IS NOT NULL AND phone = $3)
)`, username, email, phone).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u user.User) error {
	n, err := r.db.Exec(ctx, `
UPDATE users SET
	username = $2, email = $3, phone = $4, password_hash = $5,
	email_verified = $6, phone_verified = $7, account_enabled = $8, account_locked = $9,
	role = $10, updated_at = now()
WHERE id = $1`,
		u.ID, u.Username, u.Email, u.Phone, u.PasswordHash,
		u.EmailVerified, u.PhoneVerified, u.AccountEnabled, u.AccountLocked, string(u.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrDuplicateLogin
		}
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, userID int64, p user.Profile) error {
	links, err := json.Marshal(socialLinks(p.SocialLinks))
	if err != nil {
		return err
	}
	workTypes := make([]string, 0, len(p.OpenToWorkTypes))
	for _, w := range p.OpenToWorkTypes {
		workTypes = append(workTypes, string(w))
	}

	_, err = r.db.Exec(ctx, `
INSERT INTO user_profiles (user_id, name, picture_url, years_of_experience, current_location,
	open_to_work_types, skills, open_to_locations, social_links, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (user_id) DO UPDATE SET
	name = EXCLUDED.name,
	picture_url = EXCLUDED.picture_url,
	years_of_experience = EXCLUDED.years_of_experience,
	current_location = EXCLUDED.current_location,
	open_to_work_types = EXCLUDED.open_to_work_types,
	skills = EXCLUDED.skills,
	open_to_locations = EXCLUDED.open_to_locations,
	social_links = EXCLUDED.social_links,
	updated_at = now()`,
		userID, p.Name, p.PictureURL, p.YearsOfExperience, p.CurrentLocation,
		workTypes, nonNil(p.Skills), nonNil(p.OpenToLocations), links,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at)
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u          user.User
		role       string
		provider   string
		hasProfile bool
		p          user.Profile
		workTypes  []string
		links      []byte
		profileAt  *time.Time
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.EmailVerified, &u.PhoneVerified,
		&u.AccountEnabled, &u.AccountLocked, &role, &provider, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		&hasProfile, &p.Name, &p.PictureURL, &p.YearsOfExperience, &p.CurrentLocation,
		&workTypes, &p.Skills, &p.OpenToLocations, &links, &profileAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	u.AuthProvider = user.AuthProvider(provider)

	if hasProfile {
		for _, w := range workTypes {
			p.OpenToWorkTypes = append(p.OpenToWorkTypes, user.WorkType(w))
		}
		if len(links) > 0 {
			if err := json.Unmarshal(links, &p.SocialLinks); err != nil {
				return user.User{}, err
			}
		}
		if profileAt != nil {
			p.UpdatedAt = *profileAt
		}
		u.Profile = &p
	}
	return u, nil
}

func socialLinks(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
