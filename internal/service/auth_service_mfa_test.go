package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
)

func (s *AuthServiceTestSuite) TestBeginMfaEnrollment_StoresPendingSecret() {
	ctx := context.Background()
	user := activeUser()

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockTOTPService.On("GenerateSecret", user.Email).Return("NEWSECRET", "otpauth://totp/DeBrief:alice@example.com?secret=NEWSECRET", nil).Once()
	s.mockUserRepo.On("UpdateTOTP", ctx, user.ID, mock.MatchedBy(func(secret *string) bool {
		return secret != nil && *secret == "NEWSECRET"
	}), false).Return(nil).Once()

	enrollment, err := s.authService.BeginMfaEnrollment(ctx, user.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "NEWSECRET", enrollment.Secret)
	assert.Contains(s.T(), enrollment.ProvisioningURI, "otpauth://totp/")
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestBeginMfaEnrollment_ReplacesPendingSecret() {
	ctx := context.Background()
	user := activeUser()
	old := "OLDSECRET"
	user.TOTPSecret = &old

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockTOTPService.On("GenerateSecret", user.Email).Return("NEWSECRET", "otpauth://totp/x", nil).Once()
	s.mockUserRepo.On("UpdateTOTP", ctx, user.ID, mock.Anything, false).Return(nil).Once()

	enrollment, err := s.authService.BeginMfaEnrollment(ctx, user.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "NEWSECRET", enrollment.Secret)
}

func (s *AuthServiceTestSuite) TestBeginMfaEnrollment_AlreadyEnabled() {
	ctx := context.Background()
	user := activeUser()
	secret := "SECRET"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()

	_, err := s.authService.BeginMfaEnrollment(ctx, user.ID)

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaAlreadyEnabled)
	s.mockTOTPService.AssertNotCalled(s.T(), "GenerateSecret", mock.Anything)
}

func (s *AuthServiceTestSuite) TestConfirmMfaEnrollment_EnablesOnValidCode() {
	ctx := context.Background()
	user := activeUser()
	secret := "PENDINGSECRET"
	user.TOTPSecret = &secret

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockTOTPService.On("ValidateCode", secret, "123456").Return(true, nil).Once()
	s.mockUserRepo.On("UpdateTOTP", ctx, user.ID, user.TOTPSecret, true).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeMfaEnabled, user.ID.String(), mock.Anything).Return(nil).Once()

	err := s.authService.ConfirmMfaEnrollment(ctx, user.ID, "123456")

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestConfirmMfaEnrollment_InvalidCodeLeavesStateUnchanged() {
	ctx := context.Background()
	user := activeUser()
	secret := "PENDINGSECRET"
	user.TOTPSecret = &secret

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockTOTPService.On("ValidateCode", secret, "000000").Return(false, nil).Once()

	err := s.authService.ConfirmMfaEnrollment(ctx, user.ID, "000000")

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaInvalid)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateTOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestConfirmMfaEnrollment_NothingPending() {
	ctx := context.Background()
	user := activeUser()

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()

	err := s.authService.ConfirmMfaEnrollment(ctx, user.ID, "123456")

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaNotPending)
}

func (s *AuthServiceTestSuite) TestDisableMfa_RequiresValidCodeWhileEnabled() {
	ctx := context.Background()
	user := activeUser()
	secret := "SECRET"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Twice()

	err := s.authService.DisableMfa(ctx, user.ID, "")
	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaRequired)

	s.mockTOTPService.On("ValidateCode", secret, "000000").Return(false, nil).Once()
	err = s.authService.DisableMfa(ctx, user.ID, "000000")
	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaInvalid)

	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateTOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestDisableMfa_ClearsSecret() {
	ctx := context.Background()
	user := activeUser()
	secret := "SECRET"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockTOTPService.On("ValidateCode", secret, "123456").Return(true, nil).Once()
	s.mockUserRepo.On("UpdateTOTP", ctx, user.ID, (*string)(nil), false).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeMfaDisabled, user.ID.String(), mock.Anything).Return(nil).Once()

	err := s.authService.DisableMfa(ctx, user.ID, "123456")

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestDisableMfa_PendingEnrollmentNeedsNoCode() {
	ctx := context.Background()
	user := activeUser()
	secret := "PENDINGSECRET"
	user.TOTPSecret = &secret

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
	s.mockUserRepo.On("UpdateTOTP", ctx, user.ID, (*string)(nil), false).Return(nil).Once()
	s.mockPublisher.On("Publish", ctx, events.TypeMfaDisabled, user.ID.String(), mock.Anything).Return(nil).Once()

	err := s.authService.DisableMfa(ctx, user.ID, "")

	assert.NoError(s.T(), err)
	s.mockTOTPService.AssertNotCalled(s.T(), "ValidateCode", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestDisableMfa_NotEnabled() {
	ctx := context.Background()
	user := activeUser()

	s.mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil).Once()

	err := s.authService.DisableMfa(ctx, user.ID, "")

	assert.ErrorIs(s.T(), err, domainErrors.ErrMfaNotEnabled)
}
