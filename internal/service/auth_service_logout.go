package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/utils/metrics"
)

// Logout denylists the presented access token for its remaining lifetime
// and revokes the refresh token when one is supplied. Logout is best
// effort and never fails the caller: a half-revoked session only means
// the tokens die at their natural expiry.
func (s *AuthService) Logout(ctx context.Context, accessToken string, refreshToken string) {
	var userID *uuid.UUID

	claims, err := s.tokenService.Verify(accessToken, models.TokenKindAccess)
	if err == nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.tokenDenylist.Add(ctx, s.tokenService.Hash(accessToken), ttl); err != nil {
			s.logger.Error("Failed to denylist access token on logout", zap.Error(err))
		}
		if id, parseErr := uuid.Parse(claims.Subject); parseErr == nil {
			userID = &id
		}
	} else {
		s.logger.Warn("Logout with unverifiable access token", zap.Error(err))
	}

	if refreshToken != "" && userID != nil {
		hash := s.tokenService.Hash(refreshToken)
		if err := s.refreshTokenRepo.RevokeByHashAndUser(ctx, hash, *userID, models.RevokedReasonLogout); err != nil {
			s.logger.Error("Failed to revoke refresh token on logout", zap.Error(err))
		}
	}

	metrics.LogoutsTotal.Inc()
	if userID != nil {
		s.publishEvent(ctx, events.TypeLogout, userID.String(), map[string]interface{}{
			"user_id": userID.String(),
		})
		s.logger.Info("User logged out", zap.String("user_id", userID.String()))
	}
}
