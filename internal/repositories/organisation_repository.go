package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

type OrganisationRepository interface {
	// CreateWithOwner inserts the organisation and the creator's OWNER
	// membership in one transaction.
	CreateWithOwner(ctx context.Context, o *models.Organisation, ownerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
}

type organisationRepo struct {
	db DB
}

func NewOrganisationRepository(db DB) OrganisationRepository {
	return &organisationRepo{db: db}
}

func baseSelectOrganisation() string {
	return `
        SELECT id, name, uen, gst_registered, gst_reg_no, base_currency,
               created_at, updated_at
        FROM organisations`
}

func (r *organisationRepo) CreateWithOwner(ctx context.Context, o *models.Organisation, ownerID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO organisations (
            id, name, uen, gst_registered, gst_reg_no, base_currency
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )
    `,
		o.ID, o.Name, o.UEN, o.GSTRegistered, o.GSTRegNo, o.BaseCurrency,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO user_organisations (
            user_id, org_id, role, is_default, accepted_at
        ) VALUES (
            $1, $2, $3, TRUE, NOW()
        )
    `, ownerID, o.ID, models.RoleOwner)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *organisationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	row := r.db.QueryRow(ctx, baseSelectOrganisation()+" WHERE id=$1", id)
	return r.scanOrganisation(row)
}

func (r *organisationRepo) scanOrganisation(row pgx.Row) (*models.Organisation, error) {
	var o models.Organisation
	err := row.Scan(
		&o.ID, &o.Name, &o.UEN, &o.GSTRegistered, &o.GSTRegNo, &o.BaseCurrency,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
