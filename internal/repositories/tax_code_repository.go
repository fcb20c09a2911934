package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

type TaxCodeRepository interface {
	// SeedDefaults inserts the standard SG tax codes for a new
	// organisation. Idempotent per (org, code).
	SeedDefaults(ctx context.Context, orgID uuid.UUID) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.TaxCode, error)
	GetByCode(ctx context.Context, orgID uuid.UUID, code string) (*models.TaxCode, error)
	ListActive(ctx context.Context, orgID uuid.UUID) ([]*models.TaxCode, error)
}

type taxCodeRepo struct {
	db DB
}

func NewTaxCodeRepository(db DB) TaxCodeRepository {
	return &taxCodeRepo{db: db}
}

var defaultTaxCodes = []struct {
	Code string
	Name string
	Rate string
}{
	{models.TaxCodeStandardRated, "Standard-Rated Supplies", "0.09"},
	{models.TaxCodeZeroRated, "Zero-Rated Supplies", "0.00"},
	{models.TaxCodeExempt, "Exempt Supplies", "0.00"},
	{models.TaxCodeOutOfScope, "Out-of-Scope Supplies", "0.00"},
}

func baseSelectTaxCode() string {
	return `
        SELECT id, org_id, code, name, rate::text, is_active, created_at
        FROM tax_codes`
}

func (r *taxCodeRepo) SeedDefaults(ctx context.Context, orgID uuid.UUID) error {
	for _, tc := range defaultTaxCodes {
		_, err := r.db.Exec(ctx, `
            INSERT INTO tax_codes (id, org_id, code, name, rate, is_active)
            VALUES ($1, $2, $3, $4, $5, TRUE)
            ON CONFLICT (org_id, code) DO NOTHING
        `, uuid.New(), orgID, tc.Code, tc.Name, tc.Rate)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *taxCodeRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.TaxCode, error) {
	row := r.db.QueryRow(ctx, baseSelectTaxCode()+" WHERE org_id=$1 AND id=$2", orgID, id)
	return r.scanTaxCode(row)
}

func (r *taxCodeRepo) GetByCode(ctx context.Context, orgID uuid.UUID, code string) (*models.TaxCode, error) {
	row := r.db.QueryRow(ctx, baseSelectTaxCode()+" WHERE org_id=$1 AND code=$2", orgID, code)
	return r.scanTaxCode(row)
}

func (r *taxCodeRepo) ListActive(ctx context.Context, orgID uuid.UUID) ([]*models.TaxCode, error) {
	rows, err := r.db.Query(ctx, baseSelectTaxCode()+" WHERE org_id=$1 AND is_active ORDER BY code", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.TaxCode
	for rows.Next() {
		tc, err := r.scanTaxCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *taxCodeRepo) scanTaxCode(row pgx.Row) (*models.TaxCode, error) {
	var (
		tc      models.TaxCode
		rateStr string
	)
	err := row.Scan(&tc.ID, &tc.OrgID, &tc.Code, &tc.Name, &rateStr, &tc.IsActive, &tc.CreatedAt)
	if err != nil {
		return nil, err
	}
	tc.Rate, err = decimal.NewFromString(rateStr)
	if err != nil {
		return nil, err
	}
	return &tc, nil
}
