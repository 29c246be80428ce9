package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
)

// RefreshTokenRepository is the persistence contract for the refresh-token
// ledger. Rows are never deleted on revocation so reuse stays detectable.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error)

	// Rotate marks the row revoked with reason "rotated" and records the
	// successor's JTI, but only while the row is still unrevoked. Losing
	// the conditional update returns domainErrors.ErrRefreshTokenRevoked.
	Rotate(ctx context.Context, jti uuid.UUID, replacedBy uuid.UUID) error

	// Revoke marks the row revoked with the given reason. Revoking an
	// already revoked row is a no-op.
	Revoke(ctx context.Context, jti uuid.UUID, reason string) error

	// RevokeByHashAndUser revokes the active row matching both the token
	// hash and the user. Used by logout; matching nothing is not an error.
	RevokeByHashAndUser(ctx context.Context, tokenHash string, userID uuid.UUID, reason string) error

	// DeleteExpiredAndRevoked prunes rows past their expiry and rows
	// revoked longer ago than the retention window.
	DeleteExpiredAndRevoked(ctx context.Context, revokedRetention time.Duration) (int64, error)
}
