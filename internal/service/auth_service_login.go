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

// Login runs the credential login pipeline and returns the minted tokens
// together with the account profile. Every exit path, success or failure,
// appends a login attempt row before returning.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.LoginResult, error) {
	if s.captchaService.IsEnabled() {
		ok, err := s.captchaService.Verify(ctx, input.CaptchaToken, input.IPAddress)
		if err != nil {
			s.logger.Error("Captcha verification errored", zap.Error(err))
			ok = false
		}
		if !ok {
			s.recordAttempt(ctx, nil, input, false, false, models.AttemptReasonCaptcha)
			metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonCaptcha).Inc()
			return nil, domainErrors.ErrCaptchaFailed
		}
	}

	user, err := s.resolveUser(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			s.logger.Warn("Login attempt for unknown identifier", zap.String("identifier", input.Identifier))
			s.recordAttempt(ctx, nil, input, false, false, models.AttemptReasonInvalidCredentials)
			metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonInvalidCredentials).Inc()
			return nil, domainErrors.ErrInvalidCredentials
		}
		s.logger.Error("Failed to resolve user for login", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		s.logger.Warn("Login attempt for locked account",
			zap.String("user_id", user.ID.String()),
			zap.Time("locked_until", *user.LockedUntil),
		)
		s.recordAttempt(ctx, &user.ID, input, false, true, models.AttemptReasonLocked)
		metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonLocked).Inc()
		return nil, domainErrors.NewAccountLockedError(*user.LockedUntil)
	}

	passwordMatch, err := s.passwordService.CheckPasswordHash(input.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Error checking password hash", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !passwordMatch {
		return nil, s.handleFailedPassword(ctx, user, input)
	}

	if !user.Active {
		s.recordAttempt(ctx, &user.ID, input, false, false, models.AttemptReasonInactive)
		metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonInactive).Inc()
		return nil, domainErrors.ErrInactiveAccount
	}

	if user.TOTPEnabled {
		if input.TOTPCode == "" {
			s.recordAttempt(ctx, &user.ID, input, false, false, models.AttemptReasonTOTPRequired)
			metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonTOTPRequired).Inc()
			return nil, domainErrors.ErrMfaRequired
		}
		valid, err := s.totpService.ValidateCode(*user.TOTPSecret, input.TOTPCode)
		if err != nil {
			s.logger.Error("TOTP validation errored", zap.Error(err), zap.String("user_id", user.ID.String()))
			valid = false
		}
		if !valid {
			s.recordAttempt(ctx, &user.ID, input, false, false, models.AttemptReasonTOTPInvalid)
			metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonTOTPInvalid).Inc()
			return nil, domainErrors.ErrMfaInvalid
		}
	}

	pair, record, err := s.mintTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to mint token pair", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}

	// Counter reset, ledger insert and audit row commit together.
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
			if err := s.userRepo.ClearLoginFailures(ctx, user.ID); err != nil {
				return err
			}
		}
		if err := s.refreshTokenRepo.Create(ctx, record); err != nil {
			return err
		}
		return s.loginAttemptRepo.Create(ctx, s.newAttempt(&user.ID, input, true, false, models.AttemptReasonOK))
	})
	if err != nil {
		s.logger.Error("Failed to persist successful login", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonOK).Inc()
	s.publishEvent(ctx, events.TypeLoginSucceeded, user.ID.String(), map[string]interface{}{
		"user_id":    user.ID.String(),
		"ip_address": input.IPAddress,
		"session_id": record.JTI.String(),
	})
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", record.JTI.String()),
	)
	return &models.LoginResult{TokenPair: *pair, User: user.Profile()}, nil
}

// resolveUser looks the identifier up as a username first and falls back
// to email.
func (s *AuthService) resolveUser(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domainErrors.ErrUserNotFound) {
		return nil, err
	}
	return s.userRepo.FindByEmail(ctx, identifier)
}

// handleFailedPassword increments the failure counter and locks the
// account when the threshold is reached. The counter mutation and the
// audit row share one transaction. The attempt that sets the lock is
// answered with the lockout itself, not with invalid credentials.
func (s *AuthService) handleFailedPassword(ctx context.Context, user *models.User, input models.LoginInput) error {
	lockedNow := false
	var lockedUntil time.Time

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		attempts, err := s.userRepo.IncrementFailedLoginAttempts(ctx, user.ID)
		if err != nil {
			return err
		}
		if attempts >= s.cfg.Security.Lockout.MaxFailedAttempts {
			lockedUntil = time.Now().UTC().Add(s.cfg.Security.Lockout.LockoutDuration)
			if err := s.userRepo.SetLockout(ctx, user.ID, lockedUntil); err != nil {
				return err
			}
			lockedNow = true
		}
		return s.loginAttemptRepo.Create(ctx, s.newAttempt(&user.ID, input, false, lockedNow, models.AttemptReasonInvalidCredentials))
	})
	if err != nil {
		s.logger.Error("Failed to record failed login", zap.Error(err), zap.String("user_id", user.ID.String()))
		return domainErrors.ErrInternal
	}

	metrics.LoginAttemptsTotal.WithLabelValues(models.AttemptReasonInvalidCredentials).Inc()
	if lockedNow {
		metrics.AccountLockoutsTotal.Inc()
		s.logger.Warn("Account locked after repeated failures", zap.String("user_id", user.ID.String()))
		s.publishEvent(ctx, events.TypeAccountLocked, user.ID.String(), map[string]interface{}{
			"user_id":    user.ID.String(),
			"ip_address": input.IPAddress,
		})
		return domainErrors.NewAccountLockedError(lockedUntil)
	}
	return domainErrors.ErrInvalidCredentials
}

func (s *AuthService) newAttempt(userID *uuid.UUID, input models.LoginInput, success, lockedOut bool, reason string) *models.LoginAttempt {
	return &models.LoginAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  input.Identifier,
		IPAddress: input.IPAddress,
		Success:   success,
		LockedOut: lockedOut,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// recordAttempt appends an audit row outside a transaction. Failures are
// logged; the login outcome already stands.
func (s *AuthService) recordAttempt(ctx context.Context, userID *uuid.UUID, input models.LoginInput, success, lockedOut bool, reason string) {
	if err := s.loginAttemptRepo.Create(ctx, s.newAttempt(userID, input, success, lockedOut, reason)); err != nil {
		s.logger.Error("Failed to record login attempt", zap.Error(err), zap.String("reason", reason))
	}
}
