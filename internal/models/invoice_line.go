package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine is a single line item on an invoice document.
// Amounts are stored GST-exclusive; GSTAmount and TotalAmount are
// derived per line under IRAS rounding rules.
type InvoiceLine struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	OrgID      uuid.UUID `json:"org_id"`

	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`

	TaxCodeID uuid.UUID       `json:"tax_code_id"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	GSTAmount decimal.Decimal `json:"gst_amount"`

	TotalAmount decimal.Decimal `json:"total_amount"`

	// Beverage container deposits are GST exempt under BCRS.
	IsBCRSDeposit bool `json:"is_bcrs_deposit"`

	CreatedAt time.Time `json:"created_at"`
}
