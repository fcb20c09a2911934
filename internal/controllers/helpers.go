package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/middleware"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. It writes the error response itself and reports whether
// the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		details := map[string]string{}
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, fe := range vErrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", details, err,
		)
		return false
	}
	return true
}

// requireUserID pulls the authenticated user out of the context.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", nil,
		)
	}
	return userID, ok
}

// requireOrgID pulls the tenant org out of the context.
func requireOrgID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orgID, ok := middleware.OrgIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Organisation context missing", nil,
		)
	}
	return orgID, ok
}

// pathUUID parses a UUID path variable, responding 404 on garbage.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil,
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service-layer errors onto HTTP responses.
func respondServiceError(w http.ResponseWriter, err error) {
	var transitionErr *services.StatusTransitionError
	if errors.As(err, &transitionErr) {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidStatus, transitionErr.Error(),
			map[string]any{"valid_transitions": transitionErr.Valid},
		)
		return
	}

	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil,
		)
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password", nil,
		)
	case errors.Is(err, utils.ErrAccountLocked):
		utils.RespondErrorWithCode(
			w, http.StatusLocked, utils.ErrCodeLockedAccount, "Account temporarily locked", nil,
		)
	case errors.Is(err, utils.ErrAccountDisabled):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Account is disabled", nil,
		)
	case errors.Is(err, utils.ErrEmailExists):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict, "Email already registered", nil,
		)
	case errors.Is(err, utils.ErrInvalidToken):
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token", nil,
		)
	case errors.Is(err, utils.ErrDocumentLocked):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict, "Document can no longer be edited", nil,
		)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Concurrent update, please retry", nil, err,
		)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "Upstream service failed", nil, err,
		)
	default:
		utils.HandleAppError(w, err)
	}
}
