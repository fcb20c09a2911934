package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "INVOICE"
	DocumentTypeQuote      DocumentType = "QUOTE"
	DocumentTypeCreditNote DocumentType = "CREDIT_NOTE"
	DocumentTypeDebitNote  DocumentType = "DEBIT_NOTE"
)

type DocumentStatus string

const (
	DocumentStatusDraft       DocumentStatus = "DRAFT"
	DocumentStatusSent        DocumentStatus = "SENT"
	DocumentStatusApproved    DocumentStatus = "APPROVED"
	DocumentStatusPaidPartial DocumentStatus = "PAID_PARTIAL"
	DocumentStatusPaid        DocumentStatus = "PAID"
	DocumentStatusVoided      DocumentStatus = "VOIDED"
	DocumentStatusConverted   DocumentStatus = "CONVERTED"
)

// ContactSnapshot freezes the contact details on the document at
// creation time, so later contact edits do not rewrite history.
type ContactSnapshot struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	UEN         string `json:"uen,omitempty"`
}

type InvoiceDocument struct {
	Versioned

	ID    uuid.UUID `json:"id"`
	OrgID uuid.UUID `json:"org_id"`

	DocumentType    DocumentType    `json:"document_type"`
	DocumentNumber  string          `json:"document_number"`
	ContactID       uuid.UUID       `json:"contact_id"`
	ContactSnapshot ContactSnapshot `json:"contact_snapshot"`

	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`
	Reference string    `json:"reference,omitempty"`
	Notes     string    `json:"notes,omitempty"`

	Status DocumentStatus `json:"status"`

	SubTotal decimal.Decimal `json:"subtotal"`
	GSTTotal decimal.Decimal `json:"gst_total"`
	Total    decimal.Decimal `json:"total"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
	VoidedBy   *uuid.UUID `json:"voided_by,omitempty"`

	// Set on quotes converted to invoices.
	ConvertedToID *uuid.UUID `json:"converted_to_id,omitempty"`

	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Populated on detail reads, not on list reads.
	Lines []*InvoiceLine `json:"lines,omitempty"`
}

func (d *InvoiceDocument) GetID() string {
	return d.ID.String()
}
