package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is stored hashed. A token is usable until it expires,
// is revoked by logout, or is rotated away by a refresh.
type RefreshToken struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
