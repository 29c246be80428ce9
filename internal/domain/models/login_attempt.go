package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome reasons recorded on login attempt rows.
const (
	AttemptReasonOK                 = "ok"
	AttemptReasonCaptcha            = "captcha"
	AttemptReasonLocked             = "locked"
	AttemptReasonInvalidCredentials = "invalid_credentials"
	AttemptReasonInactive           = "inactive"
	AttemptReasonTOTPRequired       = "totp_required"
	AttemptReasonTOTPInvalid        = "totp_invalid"
)

// LoginAttempt is an append-only audit record of one login attempt.
// UserID is nil when the presented identifier resolved to no account;
// Username keeps the identifier exactly as presented.
type LoginAttempt struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Username  string     `json:"username"`
	IPAddress string     `json:"ip_address"`
	Success   bool       `json:"success"`
	LockedOut bool       `json:"locked_out"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}
