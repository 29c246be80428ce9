package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/utils/metrics"
)

// Refresh exchanges a refresh token for a fresh pair. Tokens are single
// use: the presented token's ledger row is revoked with a pointer to its
// successor, and presenting it again is treated as reuse.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tokenService.Verify(refreshToken, models.TokenKindRefresh)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return nil, domainErrors.ErrRefreshTokenInvalid
	}

	record, err := s.refreshTokenRepo.FindByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, domainErrors.ErrRefreshTokenInvalid) {
			metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
			return nil, domainErrors.ErrRefreshTokenInvalid
		}
		s.logger.Error("Failed to load refresh token record", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	if record.Revoked {
		// A syntactically valid token pointing at a revoked row means
		// the token was already spent: reuse, or theft.
		s.logger.Warn("Refresh token reuse detected",
			zap.String("jti", jti.String()),
			zap.String("user_id", record.UserID.String()),
		)
		metrics.RefreshReuseDetectedTotal.Inc()
		metrics.TokenRefreshTotal.WithLabelValues("reuse").Inc()
		s.publishEvent(ctx, events.TypeRefreshReuse, record.UserID.String(), map[string]interface{}{
			"user_id": record.UserID.String(),
			"jti":     jti.String(),
		})
		return nil, domainErrors.ErrRefreshTokenRevoked
	}

	if record.IsExpired(time.Now().UTC()) {
		s.revokeQuietly(ctx, jti, models.RevokedReasonExpired)
		metrics.TokenRefreshTotal.WithLabelValues("expired").Inc()
		return nil, domainErrors.ErrRefreshTokenExpired
	}

	if record.TokenHash != s.tokenService.Hash(refreshToken) {
		// The jti resolves but the material does not match the ledger.
		// Treat the whole session as compromised and kill it.
		s.logger.Warn("Refresh token hash mismatch, revoking session",
			zap.String("jti", jti.String()),
			zap.String("user_id", record.UserID.String()),
		)
		s.revokeQuietly(ctx, jti, models.RevokedReasonHashMismatch)
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return nil, domainErrors.ErrRefreshTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			s.revokeQuietly(ctx, jti, models.RevokedReasonUserInactive)
			metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
			return nil, domainErrors.ErrRefreshTokenInvalid
		}
		s.logger.Error("Failed to load user during refresh", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	if !user.Active {
		// Callers get the same answer as for any other dead token; the
		// revocation reason keeps the real cause in the ledger.
		s.revokeQuietly(ctx, jti, models.RevokedReasonUserInactive)
		metrics.TokenRefreshTotal.WithLabelValues("inactive").Inc()
		return nil, domainErrors.ErrRefreshTokenInvalid
	}

	pair, successor, err := s.mintTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to mint token pair during refresh", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.refreshTokenRepo.Rotate(ctx, jti, successor.JTI); err != nil {
			return err
		}
		return s.refreshTokenRepo.Create(ctx, successor)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrRefreshTokenRevoked) {
			// Lost a rotation race; the winner's tokens stand.
			metrics.RefreshReuseDetectedTotal.Inc()
			metrics.TokenRefreshTotal.WithLabelValues("reuse").Inc()
			return nil, domainErrors.ErrRefreshTokenRevoked
		}
		s.logger.Error("Failed to rotate refresh token", zap.Error(err), zap.String("jti", jti.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Refresh token rotated",
		zap.String("user_id", user.ID.String()),
		zap.String("old_jti", jti.String()),
		zap.String("new_jti", successor.JTI.String()),
	)
	return pair, nil
}

func (s *AuthService) revokeQuietly(ctx context.Context, jti uuid.UUID, reason string) {
	if err := s.refreshTokenRepo.Revoke(ctx, jti, reason); err != nil {
		s.logger.Error("Failed to revoke refresh token",
			zap.Error(err),
			zap.String("jti", jti.String()),
			zap.String("reason", reason),
		)
	}
}
