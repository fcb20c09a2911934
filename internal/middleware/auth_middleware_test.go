package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

var testKey = mustGenerateKey()

func mustGenerateKey() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func accessTokenFor(t *testing.T, userID uuid.UUID, ttl time.Duration) string {
	now := time.Now()
	return signToken(t, testKey, jwt.MapClaims{
		"sub": userID.String(),
		"iss": TokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Code
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()

	var gotUserID uuid.UUID
	handler := AuthMiddleware(&testKey.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil)
	req.Header.Set("Authorization", "Bearer "+accessTokenFor(t, userID, time.Minute))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, gotUserID)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware(&testKey.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, utils.ErrCodeUnauthorized, errorCode(t, rec))
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	handler := AuthMiddleware(&testKey.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil)
	req.Header.Set("Authorization", "Bearer "+accessTokenFor(t, uuid.New(), -time.Minute))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, utils.ErrCodeTokenExpired, errorCode(t, rec))
}

func TestAuthMiddlewareWrongKey(t *testing.T) {
	otherKey := mustGenerateKey()

	handler := AuthMiddleware(&testKey.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	now := time.Now()
	token := signToken(t, otherKey, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": TokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	now := time.Now()
	token := signToken(t, testKey, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "someone-else",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})

	_, err := ValidateToken(token, &testKey.PublicKey)
	require.Error(t, err)
	require.Contains(t, err.Error(), "issuer")
}

func TestValidateTokenRejectsHMAC(t *testing.T) {
	// An attacker must not be able to downgrade RS256 to HS256 using
	// the public key as the HMAC secret.
	now := time.Now()
	hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": TokenIssuer,
		"exp": now.Add(time.Minute).Unix(),
	})
	signed, err := hmacToken.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken(signed, &testKey.PublicKey)
	require.Error(t, err)
}

// ---------------------------------------------------------------------

type fakeMemberships struct {
	members map[string]bool
	err     error
}

func (f *fakeMemberships) IsMember(_ context.Context, userID, orgID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[userID.String()+"|"+orgID.String()], nil
}

func tenantHandler(memberships MembershipChecker, next http.HandlerFunc) http.Handler {
	r := mux.NewRouter()
	r.Handle("/api/v1/{orgID}/invoicing/documents/", TenantMiddleware(memberships)(next))
	return r
}

func tenantRequest(t *testing.T, userID uuid.UUID, orgID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/"+orgID+"/invoicing/documents/", nil)
	ctx := context.WithValue(req.Context(), ContextKeyUserID, userID.String())
	return req.WithContext(ctx)
}

func TestTenantMiddlewareAllowsMember(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()
	memberships := &fakeMemberships{members: map[string]bool{
		userID.String() + "|" + orgID.String(): true,
	}}

	var gotOrgID uuid.UUID
	handler := tenantHandler(memberships, func(w http.ResponseWriter, r *http.Request) {
		id, ok := OrgIDFromContext(r.Context())
		require.True(t, ok)
		gotOrgID = id
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(t, userID, orgID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, orgID, gotOrgID)
}

func TestTenantMiddlewareRejectsNonMember(t *testing.T) {
	handler := tenantHandler(&fakeMemberships{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(t, uuid.New(), uuid.New().String()))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, utils.ErrCodeForbidden, errorCode(t, rec))
}

func TestTenantMiddlewareMalformedOrgID(t *testing.T) {
	handler := tenantHandler(&fakeMemberships{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(t, uuid.New(), "not-a-uuid"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantMiddlewareRequiresAuthContext(t *testing.T) {
	handler := tenantHandler(&fakeMemberships{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/"+uuid.New().String()+"/invoicing/documents/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
