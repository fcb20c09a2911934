package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
)

// LoginAttemptsRepository tracks failed logins per email so the auth
// service can lock accounts under brute force. A lock outlives the
// sliding attempt window: once set, it holds until its expiry even
// after the attempts that caused it have aged out.
type LoginAttemptsRepository interface {
	RecordFailure(ctx context.Context, email string) error
	CountRecent(ctx context.Context, email string, window time.Duration) (int, error)
	Lock(ctx context.Context, email string, until time.Time) error
	// LockedUntil returns nil when no lock was ever set.
	LockedUntil(ctx context.Context, email string) (*time.Time, error)
	// Clear drops both the recorded attempts and any lock.
	Clear(ctx context.Context, email string) error
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

type loginAttemptsRepo struct {
	db DB
}

func NewLoginAttemptsRepository(db DB) LoginAttemptsRepository {
	return &loginAttemptsRepo{db: db}
}

func (r *loginAttemptsRepo) RecordFailure(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO login_attempts (email, attempted_at) VALUES ($1, NOW())
    `, email)
	return err
}

func (r *loginAttemptsRepo) CountRecent(ctx context.Context, email string, window time.Duration) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM login_attempts
        WHERE email=$1 AND attempted_at > NOW() - $2::interval
    `, email, window.String()).Scan(&count)
	return count, err
}

func (r *loginAttemptsRepo) Lock(ctx context.Context, email string, until time.Time) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO login_locks (email, locked_until) VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET locked_until = EXCLUDED.locked_until
    `, email, until)
	return err
}

func (r *loginAttemptsRepo) LockedUntil(ctx context.Context, email string) (*time.Time, error) {
	var until time.Time
	err := r.db.QueryRow(ctx, `
        SELECT locked_until FROM login_locks WHERE email=$1
    `, email).Scan(&until)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &until, nil
}

func (r *loginAttemptsRepo) Clear(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM login_attempts WHERE email=$1`, email); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM login_locks WHERE email=$1`, email)
	return err
}

func (r *loginAttemptsRepo) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM login_attempts WHERE attempted_at < NOW() - $1::interval
    `, olderThan.String())
	if err != nil {
		return 0, err
	}
	deleted := tag.RowsAffected()

	tag, err = r.db.Exec(ctx, `DELETE FROM login_locks WHERE locked_until < NOW()`)
	if err != nil {
		return deleted, err
	}
	return deleted + tag.RowsAffected(), nil
}
