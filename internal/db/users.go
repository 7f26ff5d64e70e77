package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when an insert collides with an existing email.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, is_verified, otp, otp_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified, &u.OTP, &u.OTPExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns the account for an email, or nil if there is none.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetUser returns the account by id, or nil if there is none.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreatePendingUser inserts an unverified account.
func (db *DB) CreatePendingUser(ctx context.Context, p PendingUser) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_verified, otp, otp_expires)
		 VALUES ($1, $2, $3, $4, FALSE, $5, $6)`,
		id, p.Name, p.Email, p.PasswordHash, p.OTP, p.OTPExpires,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// RefreshPendingUser overwrites the password hash and code of an unverified account.
// An empty name keeps the stored one. Returns false if the account is gone or already verified.
func (db *DB) RefreshPendingUser(ctx context.Context, id uuid.UUID, p PendingUser) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET name = COALESCE(NULLIF($2, ''), name),
		     password_hash = $3, otp = $4, otp_expires = $5, updated_at = NOW()
		 WHERE id = $1 AND is_verified = FALSE`,
		id, p.Name, p.PasswordHash, p.OTP, p.OTPExpires,
	)
	if err != nil {
		return false, fmt.Errorf("failed to refresh pending user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetOTP stores a new code for an unverified account.
func (db *DB) SetOTP(ctx context.Context, id uuid.UUID, otp string, expires time.Time) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET otp = $2, otp_expires = $3, updated_at = NOW()
		 WHERE id = $1 AND is_verified = FALSE`,
		id, otp, expires,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkVerified flips the account to verified and clears its code.
// Returns false if it was already verified.
func (db *DB) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, otp = NULL, otp_expires = NULL, updated_at = NOW()
		 WHERE id = $1 AND is_verified = FALSE`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark user verified: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpiredUnverified removes unverified accounts whose code expired before cutoff.
func (db *DB) DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM users
		 WHERE is_verified = FALSE AND (otp_expires IS NULL OR otp_expires < $1)`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired unverified users: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteUser removes an account.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
