package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
)

func activeUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         models.RoleClient,
		Active:       true,
	}
}

func attemptWith(reason string, success, lockedOut bool) interface{} {
	return mock.MatchedBy(func(a *models.LoginAttempt) bool {
		return a.Reason == reason && a.Success == success && a.LockedOut == lockedOut
	})
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := activeUser()
	input := models.LoginInput{Identifier: "alice", Password: "password123", IPAddress: "127.0.0.1"}

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenService.On("CreateAccessToken", user).Return("access-jwt", nil).Once()
	s.mockTokenService.On("CreateRefreshToken", user, mock.AnythingOfType("uuid.UUID")).Return("refresh-jwt", nil).Once()
	s.mockTokenService.On("Hash", "refresh-jwt").Return("refresh-hash").Once()
	s.mockRefreshTokenRepo.On("Create", ctx, mock.MatchedBy(func(t *models.RefreshToken) bool {
		return t.UserID == user.ID && t.TokenHash == "refresh-hash" && !t.Revoked
	})).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonOK, true, false)).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeLoginSucceeded, user.ID.String(), mock.Anything).Return(nil).Once()

	result, err := s.authService.Login(ctx, input)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "access-jwt", result.AccessToken)
	assert.Equal(s.T(), "refresh-jwt", result.RefreshToken)
	assert.Equal(s.T(), "bearer", result.TokenType)
	assert.Equal(s.T(), user.ID, result.User.ID)
	assert.Equal(s.T(), "alice", result.User.Username)
	assert.Equal(s.T(), "alice@example.com", result.User.Email)
	assert.Equal(s.T(), models.RoleClient, result.User.Role)
	s.mockUserRepo.AssertNotCalled(s.T(), "ClearLoginFailures", mock.Anything, mock.Anything)
	s.mockLoginAttemptRepo.AssertExpectations(s.T())
	s.mockRefreshTokenRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_SuccessClearsCounterAndLock() {
	ctx := context.Background()
	user := activeUser()
	user.FailedLoginAttempts = 3

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenService.On("CreateAccessToken", user).Return("access-jwt", nil).Once()
	s.mockTokenService.On("CreateRefreshToken", user, mock.AnythingOfType("uuid.UUID")).Return("refresh-jwt", nil).Once()
	s.mockTokenService.On("Hash", "refresh-jwt").Return("refresh-hash").Once()
	s.mockUserRepo.On("ClearLoginFailures", ctx, user.ID).Return(nil).Once()
	s.mockRefreshTokenRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonOK, true, false)).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeLoginSucceeded, user.ID.String(), mock.Anything).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123"})

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_UnknownIdentifier() {
	ctx := context.Background()

	s.mockUserRepo.On("FindByUsername", ctx, "ghost").Return(nil, domainErrors.ErrUserNotFound).Once()
	s.mockUserRepo.On("FindByEmail", ctx, "ghost").Return(nil, domainErrors.ErrUserNotFound).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, mock.MatchedBy(func(a *models.LoginAttempt) bool {
		return a.Reason == models.AttemptReasonInvalidCredentials && a.UserID == nil && a.Username == "ghost"
	})).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "ghost", Password: "whatever"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidCredentials)
	s.mockLoginAttemptRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_EmailFallback() {
	ctx := context.Background()
	user := activeUser()

	s.mockUserRepo.On("FindByUsername", ctx, "alice@example.com").Return(nil, domainErrors.ErrUserNotFound).Once()
	s.mockUserRepo.On("FindByEmail", ctx, "alice@example.com").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenService.On("CreateAccessToken", user).Return("access-jwt", nil).Once()
	s.mockTokenService.On("CreateRefreshToken", user, mock.AnythingOfType("uuid.UUID")).Return("refresh-jwt", nil).Once()
	s.mockTokenService.On("Hash", "refresh-jwt").Return("refresh-hash").Once()
	s.mockRefreshTokenRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeLoginSucceeded, user.ID.String(), mock.Anything).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice@example.com", Password: "password123"})

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPasswordIncrementsCounter() {
	ctx := context.Background()
	user := activeUser()

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "wrong", "hashed").Return(false, nil).Once()
	s.mockUserRepo.On("IncrementFailedLoginAttempts", ctx, user.ID).Return(3, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonInvalidCredentials, false, false)).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "wrong"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidCredentials)
	s.mockUserRepo.AssertNotCalled(s.T(), "SetLockout", mock.Anything, mock.Anything, mock.Anything)
	s.mockLoginAttemptRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_ThresholdFailureLocksAccount() {
	ctx := context.Background()
	user := activeUser()
	user.FailedLoginAttempts = 4

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "wrong", "hashed").Return(false, nil).Once()
	s.mockUserRepo.On("IncrementFailedLoginAttempts", ctx, user.ID).Return(5, nil).Once()
	s.mockUserRepo.On("SetLockout", ctx, user.ID, mock.MatchedBy(func(until time.Time) bool {
		remaining := time.Until(until)
		return remaining > 14*time.Minute && remaining <= 15*time.Minute
	})).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonInvalidCredentials, false, true)).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeAccountLocked, user.ID.String(), mock.Anything).Return(nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "wrong"})

	// The attempt that trips the threshold is answered with the lockout
	// itself, not with invalid credentials.
	assert.Nil(s.T(), result)
	assert.ErrorIs(s.T(), err, domainErrors.ErrAccountLocked)
	var lockedErr *domainErrors.AccountLockedError
	assert.ErrorAs(s.T(), err, &lockedErr)
	remaining := time.Until(lockedErr.RetryAfter)
	assert.True(s.T(), remaining > 14*time.Minute && remaining <= 15*time.Minute)
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_LockedAccountRejectedBeforePasswordCheck() {
	ctx := context.Background()
	user := activeUser()
	until := time.Now().UTC().Add(10 * time.Minute)
	user.LockedUntil = &until

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, mock.MatchedBy(func(a *models.LoginAttempt) bool {
		return a.Reason == models.AttemptReasonLocked && a.LockedOut
	})).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "correct-password"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrAccountLocked)
	var lockedErr *domainErrors.AccountLockedError
	assert.ErrorAs(s.T(), err, &lockedErr)
	assert.Equal(s.T(), until, lockedErr.RetryAfter)
	s.mockPasswordService.AssertNotCalled(s.T(), "CheckPasswordHash", mock.Anything, mock.Anything)
	s.mockUserRepo.AssertNotCalled(s.T(), "IncrementFailedLoginAttempts", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_ExpiredLockIsIgnored() {
	ctx := context.Background()
	user := activeUser()
	past := time.Now().UTC().Add(-time.Minute)
	user.LockedUntil = &past

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenService.On("CreateAccessToken", user).Return("access-jwt", nil).Once()
	s.mockTokenService.On("CreateRefreshToken", user, mock.AnythingOfType("uuid.UUID")).Return("refresh-jwt", nil).Once()
	s.mockTokenService.On("Hash", "refresh-jwt").Return("refresh-hash").Once()
	s.mockUserRepo.On("ClearLoginFailures", ctx, user.ID).Return(nil).Once()
	s.mockRefreshTokenRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonOK, true, false)).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeLoginSucceeded, user.ID.String(), mock.Anything).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123"})

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_InactiveAccount() {
	ctx := context.Background()
	user := activeUser()
	user.Active = false

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonInactive, false, false)).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInactiveAccount)
	s.mockUserRepo.AssertNotCalled(s.T(), "IncrementFailedLoginAttempts", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_TOTPRequiredWithoutCode() {
	ctx := context.Background()
	user := activeUser()
	secret := "JBSWY3DPEHPK3PXP"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonTOTPRequired, false, false)).Return(nil).Once()

	pair, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaRequired)
	assert.Nil(s.T(), pair)
	s.mockTokenService.AssertNotCalled(s.T(), "CreateAccessToken", mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_TOTPInvalidCode() {
	ctx := context.Background()
	user := activeUser()
	secret := "JBSWY3DPEHPK3PXP"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTOTPService.On("ValidateCode", secret, "000000").Return(false, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonTOTPInvalid, false, false)).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123", TOTPCode: "000000"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaInvalid)
	s.mockTokenService.AssertNotCalled(s.T(), "CreateAccessToken", mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_TOTPValidCode() {
	ctx := context.Background()
	user := activeUser()
	secret := "JBSWY3DPEHPK3PXP"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTOTPService.On("ValidateCode", secret, "123456").Return(true, nil).Once()
	s.mockTokenService.On("CreateAccessToken", user).Return("access-jwt", nil).Once()
	s.mockTokenService.On("CreateRefreshToken", user, mock.AnythingOfType("uuid.UUID")).Return("refresh-jwt", nil).Once()
	s.mockTokenService.On("Hash", "refresh-jwt").Return("refresh-hash").Once()
	s.mockRefreshTokenRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, attemptWith(models.AttemptReasonOK, true, false)).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeLoginSucceeded, user.ID.String(), mock.Anything).Return(nil).Once()

	pair, err := s.authService.Login(ctx, models.LoginInput{Identifier: "alice", Password: "password123", TOTPCode: "123456"})

	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), pair)
}

func (s *AuthServiceTestSuite) TestLogin_CaptchaFailureShortCircuits() {
	ctx := context.Background()
	s.mockCaptchaService.enabled = true
	s.mockCaptchaService.On("Verify", ctx, "bad-captcha", "127.0.0.1").Return(false, nil).Once()
	s.mockLoginAttemptRepo.On("Create", ctx, mock.MatchedBy(func(a *models.LoginAttempt) bool {
		return a.Reason == models.AttemptReasonCaptcha && a.UserID == nil
	})).Return(nil).Once()

	_, err := s.authService.Login(ctx, models.LoginInput{
		Identifier:   "alice",
		Password:     "password123",
		CaptchaToken: "bad-captcha",
		IPAddress:    "127.0.0.1",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrCaptchaFailed)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindByUsername", mock.Anything, mock.Anything)
}
