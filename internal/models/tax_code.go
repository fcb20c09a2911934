package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Standard Singapore GST tax codes, seeded per organisation.
const (
	TaxCodeStandardRated = "SR" // 9%
	TaxCodeZeroRated     = "ZR" // 0%
	TaxCodeExempt        = "ES" // exempt supply
	TaxCodeOutOfScope    = "OS" // out of scope
)

type TaxCode struct {
	ID    uuid.UUID `json:"id"`
	OrgID uuid.UUID `json:"org_id"`

	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"rate"` // e.g. 0.09 for 9%
	IsActive bool            `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}
