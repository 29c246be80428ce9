package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
)

type pquernaTOTPService struct {
	issuerName string
}

// NewPquernaTOTPService creates a TOTPService backed by pquerna/otp.
// issuerName is what authenticator apps display next to the account.
func NewPquernaTOTPService(issuerName string) interfaces.TOTPService {
	if strings.TrimSpace(issuerName) == "" {
		issuerName = "DeBrief"
	}
	return &pquernaTOTPService{issuerName: issuerName}
}

func (s *pquernaTOTPService) GenerateSecret(accountName string) (string, string, error) {
	if strings.TrimSpace(accountName) == "" {
		return "", "", fmt.Errorf("accountName cannot be empty for TOTP secret generation")
	}
	if strings.Contains(accountName, ":") {
		return "", "", fmt.Errorf("accountName cannot contain a colon character")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuerName,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

func (s *pquernaTOTPService) ValidateCode(secret string, code string) (bool, error) {
	if strings.TrimSpace(secret) == "" {
		return false, fmt.Errorf("secret cannot be empty")
	}
	if strings.TrimSpace(code) == "" {
		return false, nil
	}

	// Skew of 1 accepts codes from the adjacent 30 second steps.
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, fmt.Errorf("error during TOTP code validation: %w", err)
	}
	return valid, nil
}

var _ interfaces.TOTPService = (*pquernaTOTPService)(nil)
