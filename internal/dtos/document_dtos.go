package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

type DocumentLineRequest struct {
	Description   string           `json:"description" validate:"required,min=1,max=500"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice     decimal.Decimal  `json:"unit_price" validate:"required"`
	TaxCodeID     uuid.UUID        `json:"tax_code_id" validate:"required"`
	IsBCRSDeposit bool             `json:"is_bcrs_deposit"`
}

type CreateDocumentRequest struct {
	DocumentType models.DocumentType   `json:"document_type" validate:"required"`
	ContactID    uuid.UUID             `json:"contact_id" validate:"required"`
	IssueDate    string                `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate      string                `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reference    string                `json:"reference,omitempty" validate:"omitempty,max=255"`
	Notes        string                `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Lines        []DocumentLineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
}

// UpdateDocumentRequest: only DRAFT documents may be modified, and
// only these fields.
type UpdateDocumentRequest struct {
	DueDate   *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reference *string `json:"reference,omitempty" validate:"omitempty,max=255"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type TransitionStatusRequest struct {
	Status models.DocumentStatus `json:"status" validate:"required"`
}

type ConvertQuoteRequest struct {
	QuoteID uuid.UUID `json:"quote_id" validate:"required"`
}

type SendDocumentRequest struct {
	// Overrides the contact snapshot email when set.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type StatusTransitionsResponse struct {
	Transitions map[models.DocumentStatus][]models.DocumentStatus `json:"transitions"`
}
