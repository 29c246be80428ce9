package captcha

import (
	"context"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
)

type noopCaptchaService struct{}

// NewNoopCaptchaService creates a CaptchaService that accepts every
// request. Used when captcha verification is disabled.
func NewNoopCaptchaService() interfaces.CaptchaService {
	return &noopCaptchaService{}
}

func (s *noopCaptchaService) IsEnabled() bool { return false }

func (s *noopCaptchaService) Verify(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

var _ interfaces.CaptchaService = (*noopCaptchaService)(nil)
