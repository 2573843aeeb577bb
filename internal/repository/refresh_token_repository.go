package repository

import (
	"context"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/user"
)

type PostgresRefreshTokenRepository struct {
	db database.DB
}

func NewPostgresRefreshTokenRepository(db database.DB) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{db: db}
}

func (r *PostgresRefreshTokenRepository) Create(ctx context.Context, t user.RefreshToken) error {
	_, err := r.db.Exec(ctx, `INSERT INTO refresh_tokens (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		t.Token, t.UserID, t.ExpiresAt, t.CreatedAt)
	return err
}

func (r *PostgresRefreshTokenRepository) FindByToken(ctx context.Context, token string) (user.RefreshToken, error) {
	t := user.RefreshToken{Token: token}
	err := r.db.QueryRow(ctx, `SELECT user_id, expires_at, created_at FROM refresh_tokens WHERE token = $1`, token).
		Scan(&t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return user.RefreshToken{}, user.ErrRefreshTokenNotFound
		}
		return user.RefreshToken{}, err
	}
	return t, nil
}

// Rotate fails with ErrRefreshTokenNotFound when the old token was already
// consumed, so a replayed token cannot mint a second successor.
func (r *PostgresRefreshTokenRepository) Rotate(ctx context.Context, oldToken string, next user.RefreshToken) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
		if err != nil {
			return err
		}
		if n == 0 {
			return user.ErrRefreshTokenNotFound
		}
		_, err = tx.Exec(ctx, `INSERT INTO refresh_tokens (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
			next.Token, next.UserID, next.ExpiresAt, next.CreatedAt)
		return err
	})
}

func (r *PostgresRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}

func (r *PostgresRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
}
