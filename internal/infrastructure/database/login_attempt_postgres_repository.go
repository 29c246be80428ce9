package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/repository"
)

type pgxLoginAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLoginAttemptRepository creates a new instance of pgxLoginAttemptRepository.
func NewPgxLoginAttemptRepository(pool *pgxpool.Pool) repository.LoginAttemptRepository {
	return &pgxLoginAttemptRepository{pool: pool}
}

func (r *pgxLoginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (id, user_id, username, ip_address, success, locked_out, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := queryEngine(ctx, r.pool).Exec(ctx, query,
		attempt.ID, attempt.UserID, attempt.Username, attempt.IPAddress,
		attempt.Success, attempt.LockedOut, attempt.Reason, attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

var _ repository.LoginAttemptRepository = (*pgxLoginAttemptRepository)(nil)
