package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleType string

const (
	RoleOwner  RoleType = "OWNER"
	RoleAdmin  RoleType = "ADMIN"
	RoleMember RoleType = "MEMBER"
)

type Organisation struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	UEN           string    `json:"uen,omitempty"`
	GSTRegistered bool      `json:"gst_registered"`
	GSTRegNo      *string   `json:"gst_reg_no,omitempty"`
	BaseCurrency  string    `json:"base_currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organisation) GetID() string {
	return o.ID.String()
}

// UserOrganisation links a user to an organisation with a role.
type UserOrganisation struct {
	UserID    uuid.UUID  `json:"user_id"`
	OrgID     uuid.UUID  `json:"org_id"`
	Role      RoleType   `json:"role"`
	IsDefault bool       `json:"is_default"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
