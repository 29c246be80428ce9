package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
)

type recaptchaService struct {
	secretKey string
	verifyURL string
	client    *http.Client
	logger    *zap.Logger
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewRecaptchaService creates a CaptchaService that verifies tokens
// against Google's siteverify endpoint.
func NewRecaptchaService(cfg config.CaptchaConfig, logger *zap.Logger) interfaces.CaptchaService {
	return &recaptchaService{
		secretKey: cfg.SecretKey,
		verifyURL: cfg.VerifyURL,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
	}
}

func (s *recaptchaService) IsEnabled() bool { return true }

func (s *recaptchaService) Verify(ctx context.Context, token string, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", s.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build captcha verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verify returned status %d", resp.StatusCode)
	}

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode captcha verify response: %w", err)
	}
	if !result.Success && len(result.ErrorCodes) > 0 {
		s.logger.Warn("Captcha verification rejected",
			zap.Strings("error_codes", result.ErrorCodes),
		)
	}
	return result.Success, nil
}

var _ interfaces.CaptchaService = (*recaptchaService)(nil)
