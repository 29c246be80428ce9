package interfaces

// TOTPService generates and validates time-based one-time password
// secrets for two-factor authentication.
type TOTPService interface {
	// GenerateSecret creates a new secret for the account and returns the
	// base32 secret together with the otpauth:// provisioning URI.
	GenerateSecret(accountName string) (secret string, provisioningURI string, err error)

	// ValidateCode checks a code against the secret, allowing one period
	// of clock drift on either side.
	ValidateCode(secret string, code string) (bool, error)
}
