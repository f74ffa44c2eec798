package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (uid, email, display_name, photo_url, provider, password_hash, resume_count, created_at, last_login)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		user.UID,
		user.Email,
		nullableString(user.DisplayName),
		nullableString(user.PhotoURL),
		user.Provider,
		nullableString(user.PasswordHash),
		user.ResumeCount,
		user.CreatedAt,
		user.LastLogin,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

const selectUser = `
SELECT uid, email, display_name, photo_url, provider, password_hash, resume_count, created_at, last_login
FROM users`

func (r *PGRepo) GetByID(ctx context.Context, uid string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, selectUser+"\nWHERE uid = $1\nLIMIT 1", uid))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, selectUser+"\nWHERE lower(email) = $1\nLIMIT 1", NormalizeEmail(email)))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var displayName, photoURL, passwordHash sql.NullString
	err := row.Scan(
		&user.UID,
		&user.Email,
		&displayName,
		&photoURL,
		&user.Provider,
		&passwordHash,
		&user.ResumeCount,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.DisplayName = displayName.String
	user.PhotoURL = photoURL.String
	user.PasswordHash = passwordHash.String
	return user, nil
}

func (r *PGRepo) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return r.execOne(ctx, `UPDATE users SET last_login = $2 WHERE uid = $1`, uid, at)
}

func (r *PGRepo) IncrementResumeCount(ctx context.Context, uid string) error {
	return r.execOne(ctx, `UPDATE users SET resume_count = resume_count + 1 WHERE uid = $1`, uid)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// isUniqueViolation matches SQLSTATE 23505 without binding to a driver type.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
