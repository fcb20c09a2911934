package services

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/middleware"
)

// JWTService issues RSA-signed access tokens. Validation lives in the
// middleware package, next to the handlers that enforce it.
type JWTService interface {
	GenerateAccessToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

type jwtService struct {
	privateKey *rsa.PrivateKey
}

func NewJWTService(privateKey *rsa.PrivateKey) JWTService {
	return &jwtService{privateKey: privateKey}
}

func (s *jwtService) GenerateAccessToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iss": middleware.TokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}
