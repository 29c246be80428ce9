package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/repository"
)

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxUserRepository creates a new instance of pgxUserRepository.
func NewPgxUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &pgxUserRepository{pool: pool}
}

const userColumns = `
	id, username, email, password_hash, full_name, role, client_id, active,
	failed_login_attempts, locked_until, totp_secret, totp_enabled,
	created_at, updated_at`

func (r *pgxUserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Role, &user.ClientID, &user.Active,
		&user.FailedLoginAttempts, &user.LockedUntil,
		&user.TOTPSecret, &user.TOTPEnabled,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(queryEngine(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(queryEngine(ctx, r.pool).QueryRow(ctx, query, username))
}

func (r *pgxUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(queryEngine(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *pgxUserRepository) IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts`
	var attempts int
	err := queryEngine(ctx, r.pool).QueryRow(ctx, query, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to increment failed login attempts: %w", err)
	}
	return attempts, nil
}

func (r *pgxUserRepository) SetLockout(ctx context.Context, id uuid.UUID, until time.Time) error {
	// Setting the lock resets the counter; the two never coexist.
	query := `
		UPDATE users
		SET locked_until = $2, failed_login_attempts = 0, updated_at = NOW()
		WHERE id = $1`
	commandTag, err := queryEngine(ctx, r.pool).Exec(ctx, query, id, until)
	if err != nil {
		return fmt.Errorf("failed to set lockout: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *pgxUserRepository) ClearLoginFailures(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1`
	commandTag, err := queryEngine(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear login failures: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateTOTP(ctx context.Context, id uuid.UUID, secret *string, enabled bool) error {
	query := `
		UPDATE users
		SET totp_secret = $2, totp_enabled = $3, updated_at = NOW()
		WHERE id = $1`
	commandTag, err := queryEngine(ctx, r.pool).Exec(ctx, query, id, secret, enabled)
	if err != nil {
		return fmt.Errorf("failed to update totp state: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

var _ repository.UserRepository = (*pgxUserRepository)(nil)
