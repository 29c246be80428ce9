package interfaces

import (
	"github.com/google/uuid"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
)

// TokenService mints and verifies the JWTs this service issues.
type TokenService interface {
	// CreateAccessToken mints a short-lived access JWT for the user.
	CreateAccessToken(user *models.User) (string, error)

	// CreateRefreshToken mints a refresh JWT whose jti is the ledger
	// session identifier.
	CreateRefreshToken(user *models.User, jti uuid.UUID) (string, error)

	// Verify parses the token, checks the signature and expiry, and
	// rejects tokens whose "type" claim is not the expected kind.
	Verify(token string, kind models.TokenKind) (*models.Claims, error)

	// Hash returns the hex SHA-256 of the raw token, the only form in
	// which token material is persisted.
	Hash(token string) string
}
