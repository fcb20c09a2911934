package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

// ContactFilter narrows List results. Nil/zero fields are ignored.
type ContactFilter struct {
	IsCustomer *bool
	IsSupplier *bool
	IsActive   *bool
	Search     string // matches name or company_name, case-insensitive
}

type ContactRepository interface {
	Create(ctx context.Context, c *models.Contact) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, orgID uuid.UUID, f ContactFilter, limit, offset int) ([]*models.Contact, int, error)
	Update(ctx context.Context, c *models.Contact) error
	Deactivate(ctx context.Context, orgID, id uuid.UUID) error
}

type contactRepo struct {
	db DB
}

func NewContactRepository(db DB) ContactRepository {
	return &contactRepo{db: db}
}

func baseSelectContact() string {
	return `
        SELECT id, org_id, name, company_name, email, phone, uen,
               is_customer, is_supplier, payment_terms_days, is_active,
               created_at, updated_at
        FROM contacts`
}

func (r *contactRepo) Create(ctx context.Context, c *models.Contact) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO contacts (
            id, org_id, name, company_name, email, phone, uen,
            is_customer, is_supplier, payment_terms_days, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11
        )
    `,
		c.ID, c.OrgID, c.Name, c.CompanyName, c.Email, c.Phone, c.UEN,
		c.IsCustomer, c.IsSupplier, c.PaymentTermsDays, c.IsActive,
	)
	return err
}

func (r *contactRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error) {
	row := r.db.QueryRow(ctx, baseSelectContact()+" WHERE org_id=$1 AND id=$2", orgID, id)
	return r.scanContact(row)
}

func (r *contactRepo) List(ctx context.Context, orgID uuid.UUID, f ContactFilter, limit, offset int) ([]*models.Contact, int, error) {
	where := " WHERE org_id=$1"
	args := []any{orgID}

	addCond := func(cond string, val any) {
		args = append(args, val)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}

	if f.IsCustomer != nil {
		addCond("is_customer=$%d", *f.IsCustomer)
	}
	if f.IsSupplier != nil {
		addCond("is_supplier=$%d", *f.IsSupplier)
	}
	if f.IsActive != nil {
		addCond("is_active=$%d", *f.IsActive)
	}
	if f.Search != "" {
		args = append(args, f.Search)
		n := len(args)
		where += fmt.Sprintf(" AND (name ILIKE '%%'||$%d||'%%' OR company_name ILIKE '%%'||$%d||'%%')", n, n)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := baseSelectContact() + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := r.scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *contactRepo) Update(ctx context.Context, c *models.Contact) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE contacts SET
            name=$3, company_name=$4, email=$5, phone=$6, uen=$7,
            is_customer=$8, is_supplier=$9, payment_terms_days=$10,
            is_active=$11, updated_at=NOW()
        WHERE org_id=$1 AND id=$2
    `,
		c.OrgID, c.ID, c.Name, c.CompanyName, c.Email, c.Phone, c.UEN,
		c.IsCustomer, c.IsSupplier, c.PaymentTermsDays, c.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepo) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE contacts SET is_active=FALSE, updated_at=NOW()
        WHERE org_id=$1 AND id=$2
    `, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepo) scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID, &c.OrgID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.UEN,
		&c.IsCustomer, &c.IsSupplier, &c.PaymentTermsDays, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
