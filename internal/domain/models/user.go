package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse account role used by the platform.
type Role string

const (
	RoleMaster Role = "master"
	RoleClient Role = "client"
)

// User is the authentication view of a platform account. Profile and
// demand-management fields live in other services; only the columns the
// login pipeline reads and writes are mapped here.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	Active       bool       `json:"active"`

	// Brute-force lockout state. FailedLoginAttempts and an active
	// LockedUntil are mutually exclusive: setting the lock resets the
	// counter to zero.
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	// TOTP state. A stored secret with TOTPEnabled=false is a pending
	// enrollment awaiting confirmation.
	TOTPSecret  *string `json:"-"`
	TOTPEnabled bool    `json:"totp_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLocked reports whether the account lockout is active at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// HasPendingTOTP reports whether an enrollment secret is stored but not
// yet confirmed.
func (u *User) HasPendingTOTP() bool {
	return u.TOTPSecret != nil && !u.TOTPEnabled
}

// UserProfile is the minimal account view included in auth responses.
type UserProfile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}

// Profile returns the minimal view of the account.
func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
