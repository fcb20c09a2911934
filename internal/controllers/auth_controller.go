package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type AuthController struct {
	authService services.AuthService
	validate    *validator.Validate
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
		validate:    validator.New(),
	}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	user, err := c.authService.Register(r.Context(), req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.RegisterResponse{User: *user})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	user, pair, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		User:         *user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	pair, err := c.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req dtos.LogoutRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	if err := c.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Logged out"})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := c.authService.GetUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.ChangePasswordRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	if err := c.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Password changed"})
}

func (c *AuthController) MyOrganisations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	orgs, err := c.authService.ListOrganisations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MyOrganisationsResponse{Organisations: orgs})
}
