package dtos

type CreateContactRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=255"`
	CompanyName      string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string `json:"phone,omitempty" validate:"omitempty,max=50"`
	UEN              string `json:"uen,omitempty" validate:"omitempty,max=20"`
	IsCustomer       bool   `json:"is_customer"`
	IsSupplier       bool   `json:"is_supplier"`
	PaymentTermsDays int    `json:"payment_terms_days,omitempty" validate:"omitempty,min=0,max=365"`
}

type UpdateContactRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	CompanyName      *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	UEN              *string `json:"uen,omitempty" validate:"omitempty,max=20"`
	IsCustomer       *bool   `json:"is_customer,omitempty"`
	IsSupplier       *bool   `json:"is_supplier,omitempty"`
	PaymentTermsDays *int    `json:"payment_terms_days,omitempty" validate:"omitempty,min=0,max=365"`
	IsActive         *bool   `json:"is_active,omitempty"`
}
