package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.AppUser) error
	GetByEmail(ctx context.Context, email string) (*models.AppUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AppUser, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func baseSelectUser() string {
	return `
        SELECT id, email, password_hash, full_name, phone, is_active,
               created_at, updated_at
        FROM users`
}

func (r *userRepo) Create(ctx context.Context, u *models.AppUser) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, email, password_hash, full_name, phone, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )
    `,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.IsActive,
	)
	return err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	return r.scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AppUser, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return r.scanUser(row)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1
    `, id, passwordHash)
	return err
}

func (r *userRepo) scanUser(row pgx.Row) (*models.AppUser, error) {
	var u models.AppUser
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
