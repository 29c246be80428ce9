package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/utils/metrics"
)

// BeginMfaEnrollment generates a fresh TOTP secret for the user and
// stores it unconfirmed. Calling it again before confirmation replaces
// the pending secret. The secret is returned to the caller exactly once.
func (s *AuthService) BeginMfaEnrollment(ctx context.Context, userID uuid.UUID) (*models.MfaEnrollment, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mfaLookupError(err, userID)
	}
	if user.TOTPEnabled {
		return nil, domainErrors.ErrMfaAlreadyEnabled
	}

	secret, uri, err := s.totpService.GenerateSecret(user.Email)
	if err != nil {
		s.logger.Error("Failed to generate TOTP secret", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, domainErrors.ErrInternal
	}

	if err := s.userRepo.UpdateTOTP(ctx, userID, &secret, false); err != nil {
		s.logger.Error("Failed to store pending TOTP secret", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.MfaOperationsTotal.WithLabelValues("setup", "ok").Inc()
	return &models.MfaEnrollment{Secret: secret, ProvisioningURI: uri}, nil
}

// ConfirmMfaEnrollment turns a pending enrollment on after the user
// proves possession of the secret with a valid code.
func (s *AuthService) ConfirmMfaEnrollment(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.mfaLookupError(err, userID)
	}
	if user.TOTPEnabled {
		return domainErrors.ErrMfaAlreadyEnabled
	}
	if !user.HasPendingTOTP() {
		return domainErrors.ErrMfaNotPending
	}

	valid, err := s.totpService.ValidateCode(*user.TOTPSecret, code)
	if err != nil {
		s.logger.Error("TOTP validation errored during confirmation", zap.Error(err), zap.String("user_id", userID.String()))
		valid = false
	}
	if !valid {
		metrics.MfaOperationsTotal.WithLabelValues("enable", "invalid_code").Inc()
		return domainErrors.ErrMfaInvalid
	}

	if err := s.userRepo.UpdateTOTP(ctx, userID, user.TOTPSecret, true); err != nil {
		s.logger.Error("Failed to enable TOTP", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}

	metrics.MfaOperationsTotal.WithLabelValues("enable", "ok").Inc()
	s.publishEvent(ctx, events.TypeMfaEnabled, userID.String(), map[string]interface{}{
		"user_id": userID.String(),
	})
	s.logger.Info("Two-factor authentication enabled", zap.String("user_id", userID.String()))
	return nil
}

// DisableMfa removes the user's TOTP configuration. While enabled, a
// currently valid code is required; a merely pending enrollment is
// discarded without one.
func (s *AuthService) DisableMfa(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.mfaLookupError(err, userID)
	}
	if !user.TOTPEnabled && user.TOTPSecret == nil {
		return domainErrors.ErrMfaNotEnabled
	}

	if user.TOTPEnabled {
		if code == "" {
			return domainErrors.ErrMfaRequired
		}
		valid, err := s.totpService.ValidateCode(*user.TOTPSecret, code)
		if err != nil {
			s.logger.Error("TOTP validation errored during disable", zap.Error(err), zap.String("user_id", userID.String()))
			valid = false
		}
		if !valid {
			metrics.MfaOperationsTotal.WithLabelValues("disable", "invalid_code").Inc()
			return domainErrors.ErrMfaInvalid
		}
	}

	if err := s.userRepo.UpdateTOTP(ctx, userID, nil, false); err != nil {
		s.logger.Error("Failed to disable TOTP", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}

	metrics.MfaOperationsTotal.WithLabelValues("disable", "ok").Inc()
	s.publishEvent(ctx, events.TypeMfaDisabled, userID.String(), map[string]interface{}{
		"user_id": userID.String(),
	})
	s.logger.Info("Two-factor authentication disabled", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) mfaLookupError(err error, userID uuid.UUID) error {
	if errors.Is(err, domainErrors.ErrUserNotFound) {
		return domainErrors.ErrUserNotFound
	}
	s.logger.Error("Failed to load user for MFA operation", zap.Error(err), zap.String("user_id", userID.String()))
	return domainErrors.ErrInternal
}
