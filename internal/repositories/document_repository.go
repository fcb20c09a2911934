package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

// DocumentFilter narrows List results. Nil/zero fields are ignored.
type DocumentFilter struct {
	DocumentType models.DocumentType
	Status       models.DocumentStatus
	ContactID    *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string // matches document_number, case-insensitive
}

// DocumentSummaryRow is one bucket of the org-wide document summary.
type DocumentSummaryRow struct {
	DocumentType models.DocumentType   `json:"document_type"`
	Status       models.DocumentStatus `json:"status"`
	Count        int                   `json:"count"`
	Total        decimal.Decimal       `json:"total"`
}

type DocumentRepository interface {
	Create(ctx context.Context, d *models.InvoiceDocument) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.InvoiceDocument, error)
	List(ctx context.Context, orgID uuid.UUID, f DocumentFilter, limit, offset int) ([]*models.InvoiceDocument, int, error)

	// Optimistic-lock helpers
	UpdateIfVersion(ctx context.Context, d *models.InvoiceDocument, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, orgID, id uuid.UUID, mutate func(*models.InvoiceDocument) error) error

	// NextDocumentNumber atomically advances the per-org, per-type sequence.
	NextDocumentNumber(ctx context.Context, orgID uuid.UUID, docType models.DocumentType) (int, error)

	InsertLine(ctx context.Context, l *models.InvoiceLine) error
	DeleteLine(ctx context.Context, orgID, documentID, lineID uuid.UUID) error
	ListLines(ctx context.Context, orgID, documentID uuid.UUID) ([]*models.InvoiceLine, error)

	Summary(ctx context.Context, orgID uuid.UUID) ([]*DocumentSummaryRow, error)
}

type documentRepo struct {
	*BaseVersionedRepo[*models.InvoiceDocument]
	db DB
}

func NewDocumentRepository(db DB) DocumentRepository {
	r := &documentRepo{db: db}
	selectStmt := baseSelectDocument() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanDocument)
	return r
}

func baseSelectDocument() string {
	return `
        SELECT id, org_id, document_type, document_number, contact_id,
               contact_snapshot, issue_date, due_date, reference, notes,
               status, subtotal::text, gst_total::text, total::text,
               approved_at, approved_by, voided_at, voided_by,
               converted_to_id, created_by, created_at, updated_at,
               row_version
        FROM invoice_documents`
}

func (r *documentRepo) Create(ctx context.Context, d *models.InvoiceDocument) error {
	snapshot, err := json.Marshal(d.ContactSnapshot)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO invoice_documents (
            id, org_id, document_type, document_number, contact_id,
            contact_snapshot, issue_date, due_date, reference, notes,
            status, subtotal, gst_total, total, created_by
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15
        )
    `,
		d.ID, d.OrgID, d.DocumentType, d.DocumentNumber, d.ContactID,
		snapshot, d.IssueDate, d.DueDate, d.Reference, d.Notes,
		d.Status, d.SubTotal.String(), d.GSTTotal.String(), d.Total.String(), d.CreatedBy,
	)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.InvoiceDocument, error) {
	row := r.db.QueryRow(ctx, baseSelectDocument()+" WHERE org_id=$1 AND id=$2", orgID, id)
	doc, err := r.scanDocument(row)
	if err != nil {
		return nil, err
	}
	doc.Lines, err = r.ListLines(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) List(ctx context.Context, orgID uuid.UUID, f DocumentFilter, limit, offset int) ([]*models.InvoiceDocument, int, error) {
	where := " WHERE org_id=$1"
	args := []any{orgID}

	addCond := func(cond string, val any) {
		args = append(args, val)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}

	if f.DocumentType != "" {
		addCond("document_type=$%d", f.DocumentType)
	}
	if f.Status != "" {
		addCond("status=$%d", f.Status)
	}
	if f.ContactID != nil {
		addCond("contact_id=$%d", *f.ContactID)
	}
	if f.DateFrom != nil {
		addCond("issue_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		addCond("issue_date <= $%d", *f.DateTo)
	}
	if f.Search != "" {
		args = append(args, f.Search)
		where += fmt.Sprintf(" AND document_number ILIKE '%%'||$%d||'%%'", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoice_documents"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := baseSelectDocument() + where +
		fmt.Sprintf(" ORDER BY issue_date DESC, document_number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.InvoiceDocument
	for rows.Next() {
		d, err := r.scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *documentRepo) UpdateIfVersion(ctx context.Context, d *models.InvoiceDocument, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE invoice_documents SET
            due_date=$3, reference=$4, notes=$5, status=$6,
            subtotal=$7, gst_total=$8, total=$9,
            approved_at=$10, approved_by=$11, voided_at=$12, voided_by=$13,
            converted_to_id=$14,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$1 AND row_version=$2
    `,
		d.ID, expected,
		d.DueDate, d.Reference, d.Notes, d.Status,
		d.SubTotal.String(), d.GSTTotal.String(), d.Total.String(),
		d.ApprovedAt, d.ApprovedBy, d.VoidedAt, d.VoidedBy,
		d.ConvertedToID,
	)
}

func (r *documentRepo) UpdateWithRetry(ctx context.Context, orgID, id uuid.UUID, mutate func(*models.InvoiceDocument) error) error {
	guarded := func(d *models.InvoiceDocument) error {
		if d.OrgID != orgID {
			return pgx.ErrNoRows
		}
		return mutate(d)
	}
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), guarded, r.UpdateIfVersion)
}

func (r *documentRepo) NextDocumentNumber(ctx context.Context, orgID uuid.UUID, docType models.DocumentType) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `
        INSERT INTO document_sequences (org_id, document_type, next_number)
        VALUES ($1, $2, 1)
        ON CONFLICT (org_id, document_type)
        DO UPDATE SET next_number = document_sequences.next_number + 1
        RETURNING next_number
    `, orgID, docType).Scan(&next)
	return next, err
}

func (r *documentRepo) InsertLine(ctx context.Context, l *models.InvoiceLine) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO invoice_lines (
            id, document_id, org_id, line_number, description,
            quantity, unit_price, amount, tax_code_id, tax_rate,
            gst_amount, total_amount, is_bcrs_deposit
        ) VALUES (
            $1, $2, $3,
            (SELECT COALESCE(MAX(line_number), 0) + 1
               FROM invoice_lines WHERE document_id = $2),
            $4, $5, $6, $7, $8, $9, $10, $11, $12
        )
        RETURNING line_number
    `,
		l.ID, l.DocumentID, l.OrgID, l.Description,
		l.Quantity.String(), l.UnitPrice.String(), l.Amount.String(),
		l.TaxCodeID, l.TaxRate.String(),
		l.GSTAmount.String(), l.TotalAmount.String(), l.IsBCRSDeposit,
	).Scan(&l.LineNumber)
}

func (r *documentRepo) DeleteLine(ctx context.Context, orgID, documentID, lineID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM invoice_lines
        WHERE org_id=$1 AND document_id=$2 AND id=$3
    `, orgID, documentID, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepo) ListLines(ctx context.Context, orgID, documentID uuid.UUID) ([]*models.InvoiceLine, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, document_id, org_id, line_number, description,
               quantity::text, unit_price::text, amount::text,
               tax_code_id, tax_rate::text, gst_amount::text,
               total_amount::text, is_bcrs_deposit, created_at
        FROM invoice_lines
        WHERE org_id=$1 AND document_id=$2
        ORDER BY line_number
    `, orgID, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.InvoiceLine
	for rows.Next() {
		var (
			l                                  models.InvoiceLine
			qty, price, amount, rate, gst, tot string
		)
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.OrgID, &l.LineNumber, &l.Description,
			&qty, &price, &amount,
			&l.TaxCodeID, &rate, &gst,
			&tot, &l.IsBCRSDeposit, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := parseDecimals(map[*decimal.Decimal]string{
			&l.Quantity: qty, &l.UnitPrice: price, &l.Amount: amount,
			&l.TaxRate: rate, &l.GSTAmount: gst, &l.TotalAmount: tot,
		}); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *documentRepo) Summary(ctx context.Context, orgID uuid.UUID) ([]*DocumentSummaryRow, error) {
	rows, err := r.db.Query(ctx, `
        SELECT document_type, status, COUNT(*), COALESCE(SUM(total), 0)::text
        FROM invoice_documents
        WHERE org_id=$1
        GROUP BY document_type, status
        ORDER BY document_type, status
    `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DocumentSummaryRow
	for rows.Next() {
		var (
			s        DocumentSummaryRow
			totalStr string
		)
		if err := rows.Scan(&s.DocumentType, &s.Status, &s.Count, &totalStr); err != nil {
			return nil, err
		}
		if s.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *documentRepo) scanDocument(row pgx.Row) (*models.InvoiceDocument, error) {
	var (
		d                       models.InvoiceDocument
		snapshot                []byte
		subtotal, gstTot, total string
	)
	err := row.Scan(
		&d.ID, &d.OrgID, &d.DocumentType, &d.DocumentNumber, &d.ContactID,
		&snapshot, &d.IssueDate, &d.DueDate, &d.Reference, &d.Notes,
		&d.Status, &subtotal, &gstTot, &total,
		&d.ApprovedAt, &d.ApprovedBy, &d.VoidedAt, &d.VoidedBy,
		&d.ConvertedToID, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&d.RowVersion,
	)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &d.ContactSnapshot); err != nil {
			return nil, err
		}
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&d.SubTotal: subtotal, &d.GSTTotal: gstTot, &d.Total: total,
	}); err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDecimals(fields map[*decimal.Decimal]string) error {
	for dst, raw := range fields {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}
