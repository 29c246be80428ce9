package repository

import (
	"context"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
)

// LoginAttemptRepository is the append-only audit log of login attempts.
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
}
