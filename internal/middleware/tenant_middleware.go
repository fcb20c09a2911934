package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

// MembershipChecker reports whether a user belongs to an organisation.
// Satisfied by repositories.MembershipRepository.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
}

// TenantMiddleware resolves {orgID} from the URL, verifies the
// authenticated user is a member, and stores the org ID in context.
// Must run after AuthMiddleware.
func TenantMiddleware(memberships MembershipChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := uuid.Parse(mux.Vars(r)["orgID"])
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusNotFound, utils.ErrCodeNotFound, "Organisation not found", nil,
				)
				return
			}

			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", nil,
				)
				return
			}

			isMember, err := memberships.IsMember(r.Context(), userID, orgID)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to verify membership", nil, err,
				)
				return
			}
			if !isMember {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeForbidden, "Not a member of this organisation", nil,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyOrgID, orgID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OrgIDFromContext returns the tenant org ID set by TenantMiddleware.
func OrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ContextKeyOrgID).(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
