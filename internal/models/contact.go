package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a customer or supplier of an organisation.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	OrgID uuid.UUID `json:"org_id"`

	Name             string `json:"name"`
	CompanyName      string `json:"company_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	UEN              string `json:"uen,omitempty"`
	IsCustomer       bool   `json:"is_customer"`
	IsSupplier       bool   `json:"is_supplier"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	IsActive         bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contact) GetID() string {
	return c.ID.String()
}
