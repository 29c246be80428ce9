package models

import (
	"time"

	"github.com/google/uuid"
)

// Revocation reasons recorded on refresh token rows.
const (
	RevokedReasonRotated      = "rotated"
	RevokedReasonExpired      = "expired"
	RevokedReasonHashMismatch = "hash_mismatch"
	RevokedReasonUserInactive = "user_inactive"
	RevokedReasonLogout       = "logout"
)

// RefreshToken is one row of the refresh-token ledger. JTI doubles as the
// session identifier and is embedded in the refresh JWT; TokenHash is the
// SHA-256 of the raw JWT so the ledger never stores usable token material.
type RefreshToken struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	JTI           uuid.UUID  `json:"jti"`
	TokenHash     string     `json:"-"`
	ExpiresAt     time.Time  `json:"expires_at"`
	Revoked       bool       `json:"revoked"`
	RevokedReason *string    `json:"revoked_reason,omitempty"`
	ReplacedByJTI *uuid.UUID `json:"replaced_by_jti,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsExpired reports whether the token's lifetime has elapsed at the given time.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
