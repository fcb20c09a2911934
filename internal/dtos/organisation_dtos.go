package dtos

import (
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
)

type CreateOrganisationRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	UEN           string  `json:"uen,omitempty" validate:"omitempty,max=20"`
	GSTRegistered bool    `json:"gst_registered"`
	GSTRegNo      *string `json:"gst_reg_no,omitempty" validate:"omitempty,max=20"`
	BaseCurrency  string  `json:"base_currency,omitempty" validate:"omitempty,len=3,uppercase"`
}

type OrganisationSummaryResponse struct {
	ContactCount  int                                `json:"contact_count"`
	DocumentCount int                                `json:"document_count"`
	Outstanding   decimal.Decimal                    `json:"outstanding_total"`
	Documents     []*repositories.DocumentSummaryRow `json:"documents"`
}
