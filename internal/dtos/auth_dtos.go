package dtos

import (
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
)

// ----------------------
// Requests
// ----------------------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=128"`
	FullName string `json:"full_name" validate:"required,min=1,max=255"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=12,max=128"`
}

// ----------------------
// Responses
// ----------------------

type RegisterResponse struct {
	User models.AppUser `json:"user"`
}

type LoginResponse struct {
	User         models.AppUser `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type MyOrganisationsResponse struct {
	Organisations []*repositories.MembershipWithOrg `json:"organisations"`
}
