package models

// LoginInput carries everything a single login attempt needs.
type LoginInput struct {
	Identifier   string // username, falling back to email
	Password     string
	TOTPCode     string // empty when the caller has no second factor
	CaptchaToken string
	IPAddress    string
}

// LoginResult is what a successful login returns: the minted tokens plus
// the minimal account profile.
type LoginResult struct {
	TokenPair
	User UserProfile `json:"user"`
}

// MfaEnrollment is the result of beginning a TOTP enrollment. The secret
// is returned exactly once; afterwards only codes are exchanged.
type MfaEnrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

// Principal is the verified identity attached to a request after access
// token verification.
type Principal struct {
	UserID string
	Role   Role
}
