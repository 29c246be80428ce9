package interfaces

import "context"

// CaptchaService verifies a client-supplied CAPTCHA response token.
type CaptchaService interface {
	Verify(ctx context.Context, token string, remoteIP string) (bool, error)
	IsEnabled() bool
}
