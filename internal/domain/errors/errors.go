package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// General errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrCaptchaFailed      = errors.New("captcha verification failed")

	// Token errors
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("expired token")
	ErrTokenRevoked        = errors.New("revoked token")
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("expired refresh token")
	ErrRefreshTokenRevoked = errors.New("revoked refresh token")

	// Two-factor authentication errors
	ErrMfaRequired       = errors.New("two-factor code required")
	ErrMfaInvalid        = errors.New("invalid two-factor code")
	ErrMfaNotEnabled     = errors.New("two-factor authentication not enabled")
	ErrMfaAlreadyEnabled = errors.New("two-factor authentication already enabled")
	ErrMfaNotPending     = errors.New("no pending two-factor enrollment")
)

// AccountLockedError carries the moment the lockout expires so callers
// can surface a Retry-After value. errors.Is(err, ErrAccountLocked)
// matches it.
type AccountLockedError struct {
	RetryAfter time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account temporarily locked until %s", e.RetryAfter.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// NewAccountLockedError creates an AccountLockedError for the given expiry.
func NewAccountLockedError(retryAfter time.Time) *AccountLockedError {
	return &AccountLockedError{RetryAfter: retryAfter}
}

// IsUnauthorized reports whether err maps to an HTTP 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrRefreshTokenInvalid) ||
		errors.Is(err, ErrRefreshTokenExpired) ||
		errors.Is(err, ErrRefreshTokenRevoked)
}

// IsBadRequest reports whether err maps to an HTTP 400.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrMfaInvalid) ||
		errors.Is(err, ErrMfaRequired)
}
