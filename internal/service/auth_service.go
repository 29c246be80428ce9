package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/repository"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/utils/metrics"
)

// AuthService orchestrates credential login, token rotation, revocation
// and the two-factor lifecycle.
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	loginAttemptRepo repository.LoginAttemptRepository
	txManager        repository.TxManager
	passwordService  interfaces.PasswordService
	tokenService     interfaces.TokenService
	totpService      interfaces.TOTPService
	captchaService   interfaces.CaptchaService
	tokenDenylist    interfaces.TokenDenylist
	publisher        events.Publisher
	cfg              *config.Config
	logger           *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	loginAttemptRepo repository.LoginAttemptRepository,
	txManager repository.TxManager,
	passwordService interfaces.PasswordService,
	tokenService interfaces.TokenService,
	totpService interfaces.TOTPService,
	captchaService interfaces.CaptchaService,
	tokenDenylist interfaces.TokenDenylist,
	publisher events.Publisher,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		loginAttemptRepo: loginAttemptRepo,
		txManager:        txManager,
		passwordService:  passwordService,
		tokenService:     tokenService,
		totpService:      totpService,
		captchaService:   captchaService,
		tokenDenylist:    tokenDenylist,
		publisher:        publisher,
		cfg:              cfg,
		logger:           logger,
	}
}

// VerifyAccessToken validates an access token for use by protected
// endpoints: signature, expiry, kind, then the denylist.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.tokenService.Verify(token, models.TokenKindAccess)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	denied, err := s.tokenDenylist.Contains(ctx, s.tokenService.Hash(token))
	if err != nil {
		s.logger.Error("Denylist lookup failed during token verification", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	if denied {
		metrics.TokenVerificationsTotal.WithLabelValues("revoked").Inc()
		return nil, domainErrors.ErrTokenRevoked
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return &models.Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

// mintTokenPair creates an access/refresh pair for the user and the
// ledger row for the refresh token. The row is not persisted here.
func (s *AuthService) mintTokenPair(user *models.User) (*models.TokenPair, *models.RefreshToken, error) {
	jti := uuid.New()

	accessToken, err := s.tokenService.CreateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.tokenService.CreateRefreshToken(user, jti)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		JTI:       jti,
		TokenHash: s.tokenService.Hash(refreshToken),
		ExpiresAt: now.Add(s.cfg.JWT.RefreshTokenTTL),
		CreatedAt: now,
	}

	pair := &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenTTL.Seconds()),
	}
	return pair, record, nil
}

// publishEvent sends an auth event without letting publish failures reach
// the caller.
func (s *AuthService) publishEvent(ctx context.Context, eventType string, subject string, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, subject, data); err != nil {
		s.logger.Error("Failed to publish auth event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
