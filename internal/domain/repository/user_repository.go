package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
)

// UserRepository is the persistence contract for the authentication view
// of user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// IncrementFailedLoginAttempts bumps the failure counter in a single
	// statement and returns the new value.
	IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) (int, error)

	// SetLockout sets the lockout expiry and resets the failure counter
	// to zero in the same statement.
	SetLockout(ctx context.Context, id uuid.UUID, until time.Time) error

	// ClearLoginFailures resets the counter and removes any lockout.
	ClearLoginFailures(ctx context.Context, id uuid.UUID) error

	// UpdateTOTP stores the enrollment state. A nil secret clears it.
	UpdateTOTP(ctx context.Context, id uuid.UUID, secret *string, enabled bool) error
}
