package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/repository"
)

type pgxRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRefreshTokenRepository creates a new instance of pgxRefreshTokenRepository.
func NewPgxRefreshTokenRepository(pool *pgxpool.Pool) repository.RefreshTokenRepository {
	return &pgxRefreshTokenRepository{pool: pool}
}

func (r *pgxRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, jti, token_hash, expires_at, revoked, revoked_reason, replaced_by_jti, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := queryEngine(ctx, r.pool).Exec(ctx, query,
		token.ID, token.UserID, token.JTI, token.TokenHash, token.ExpiresAt,
		token.Revoked, token.RevokedReason, token.ReplacedByJTI, token.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("refresh token with given jti or hash already exists: %w", domainErrors.ErrRefreshTokenInvalid)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, jti, token_hash, expires_at, revoked, revoked_reason, replaced_by_jti, created_at
		FROM refresh_tokens
		WHERE jti = $1`
	token := &models.RefreshToken{}
	err := queryEngine(ctx, r.pool).QueryRow(ctx, query, jti).Scan(
		&token.ID, &token.UserID, &token.JTI, &token.TokenHash, &token.ExpiresAt,
		&token.Revoked, &token.RevokedReason, &token.ReplacedByJTI, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("failed to find refresh token by jti: %w", err)
	}
	return token, nil
}

func (r *pgxRefreshTokenRepository) Rotate(ctx context.Context, jti uuid.UUID, replacedBy uuid.UUID) error {
	// Conditional on revoked = FALSE so exactly one of two concurrent
	// rotations wins; the loser sees zero rows affected.
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_reason = $2, replaced_by_jti = $3
		WHERE jti = $1 AND revoked = FALSE`
	commandTag, err := queryEngine(ctx, r.pool).Exec(ctx, query, jti, models.RevokedReasonRotated, replacedBy)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrRefreshTokenRevoked
	}
	return nil
}

func (r *pgxRefreshTokenRepository) Revoke(ctx context.Context, jti uuid.UUID, reason string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_reason = $2
		WHERE jti = $1 AND revoked = FALSE`
	_, err := queryEngine(ctx, r.pool).Exec(ctx, query, jti, reason)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) RevokeByHashAndUser(ctx context.Context, tokenHash string, userID uuid.UUID, reason string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_reason = $3
		WHERE token_hash = $1 AND user_id = $2 AND revoked = FALSE`
	_, err := queryEngine(ctx, r.pool).Exec(ctx, query, tokenHash, userID, reason)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token by hash: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) DeleteExpiredAndRevoked(ctx context.Context, revokedRetention time.Duration) (int64, error) {
	// Revoked rows are kept for the retention window so reuse of a
	// rotated token stays detectable for a while.
	cutoff := time.Now().Add(-revokedRetention)
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at < NOW() OR (revoked = TRUE AND created_at < $1)`
	commandTag, err := queryEngine(ctx, r.pool).Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*pgxRefreshTokenRepository)(nil)
