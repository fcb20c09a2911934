package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	// DeleteExpired removes tokens past their expiry and tokens revoked
	// more than the retention window ago. Returns rows removed.
	DeleteExpired(ctx context.Context, retention time.Duration) (int64, error)
}

type refreshTokenRepo struct {
	db DB
}

func NewRefreshTokenRepository(db DB) RefreshTokenRepository {
	return &refreshTokenRepo{db: db}
}

func (r *refreshTokenRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
        VALUES ($1, $2, $3, $4)
    `, t.ID, t.UserID, t.TokenHash, t.ExpiresAt)
	return err
}

func (r *refreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.QueryRow(ctx, `
        SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
        FROM refresh_tokens WHERE token_hash=$1
    `, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *refreshTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE refresh_tokens SET revoked_at=NOW()
        WHERE id=$1 AND revoked_at IS NULL
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *refreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        UPDATE refresh_tokens SET revoked_at=NOW()
        WHERE user_id=$1 AND revoked_at IS NULL
    `, userID)
	return err
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM refresh_tokens
        WHERE expires_at < NOW()
           OR (revoked_at IS NOT NULL AND revoked_at < NOW() - $1::interval)
    `, retention.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
