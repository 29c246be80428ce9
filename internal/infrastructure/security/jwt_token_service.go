package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
)

type jwtTokenService struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTTokenService creates the HS256 token codec used for both access
// and refresh tokens. The "type" claim keeps the two kinds from being
// interchangeable.
func NewJWTTokenService(cfg config.JWTConfig) (interfaces.TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key must not be empty")
	}
	return &jwtTokenService{
		secretKey:       []byte(cfg.SecretKey),
		issuer:          cfg.Issuer,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (s *jwtTokenService) CreateAccessToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := models.Claims{
		TokenType: models.TokenKindAccess,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *jwtTokenService) CreateRefreshToken(user *models.User, jti uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := models.Claims{
		TokenType: models.TokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

func (s *jwtTokenService) Verify(token string, kind models.TokenKind) (*models.Claims, error) {
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if kind == models.TokenKindRefresh {
				return nil, domainErrors.ErrRefreshTokenExpired
			}
			return nil, domainErrors.ErrTokenExpired
		}
		if kind == models.TokenKindRefresh {
			return nil, domainErrors.ErrRefreshTokenInvalid
		}
		return nil, domainErrors.ErrTokenInvalid
	}
	if !parsed.Valid || claims.TokenType != kind {
		if kind == models.TokenKindRefresh {
			return nil, domainErrors.ErrRefreshTokenInvalid
		}
		return nil, domainErrors.ErrTokenInvalid
	}
	return claims, nil
}

func (s *jwtTokenService) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ interfaces.TokenService = (*jwtTokenService)(nil)
