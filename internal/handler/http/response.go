package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/errors"
)

// ResponseError is the error envelope every endpoint returns.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError sends an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger) {
	logger.Warn("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

// RespondWithData sends a success response carrying only data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage sends a success response carrying only a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// respondWithDomainError maps domain errors to HTTP statuses and stable
// error codes.
func respondWithDomainError(c *gin.Context, err error, logger *zap.Logger) {
	var lockedErr *domainErrors.AccountLockedError
	if errors.As(err, &lockedErr) {
		retryAfter := time.Until(lockedErr.RetryAfter)
		if retryAfter > 0 {
			c.Header("Retry-After", lockedErr.RetryAfter.UTC().Format(http.TimeFormat))
		}
		RespondWithError(c, http.StatusLocked, err.Error(), "account_locked", logger)
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		RespondWithError(c, http.StatusUnauthorized, "invalid credentials", "invalid_credentials", logger)
	case errors.Is(err, domainErrors.ErrAccountLocked):
		RespondWithError(c, http.StatusLocked, "account temporarily locked", "account_locked", logger)
	case errors.Is(err, domainErrors.ErrInactiveAccount):
		RespondWithError(c, http.StatusForbidden, "account is inactive", "inactive_account", logger)
	case errors.Is(err, domainErrors.ErrCaptchaFailed):
		RespondWithError(c, http.StatusForbidden, "captcha verification failed", "captcha_failed", logger)
	case errors.Is(err, domainErrors.ErrMfaRequired):
		RespondWithError(c, http.StatusBadRequest, "two-factor code required", "totp_required", logger)
	case errors.Is(err, domainErrors.ErrMfaInvalid):
		RespondWithError(c, http.StatusBadRequest, "invalid two-factor code", "totp_invalid", logger)
	case errors.Is(err, domainErrors.ErrMfaAlreadyEnabled):
		RespondWithError(c, http.StatusConflict, "two-factor authentication already enabled", "totp_already_enabled", logger)
	case errors.Is(err, domainErrors.ErrMfaNotEnabled):
		RespondWithError(c, http.StatusConflict, "two-factor authentication not enabled", "totp_not_enabled", logger)
	case errors.Is(err, domainErrors.ErrMfaNotPending):
		RespondWithError(c, http.StatusConflict, "no pending two-factor enrollment", "totp_not_pending", logger)
	case errors.Is(err, domainErrors.ErrRefreshTokenExpired):
		RespondWithError(c, http.StatusUnauthorized, "refresh token expired", "refresh_token_expired", logger)
	case errors.Is(err, domainErrors.ErrRefreshTokenRevoked):
		RespondWithError(c, http.StatusUnauthorized, "refresh token revoked", "refresh_token_revoked", logger)
	case errors.Is(err, domainErrors.ErrRefreshTokenInvalid):
		RespondWithError(c, http.StatusUnauthorized, "invalid refresh token", "refresh_token_invalid", logger)
	case errors.Is(err, domainErrors.ErrTokenRevoked):
		RespondWithError(c, http.StatusUnauthorized, "token revoked", "token_revoked", logger)
	case errors.Is(err, domainErrors.ErrTokenExpired):
		RespondWithError(c, http.StatusUnauthorized, "token expired", "token_expired", logger)
	case errors.Is(err, domainErrors.ErrTokenInvalid):
		RespondWithError(c, http.StatusUnauthorized, "invalid token", "token_invalid", logger)
	case errors.Is(err, domainErrors.ErrUserNotFound):
		RespondWithError(c, http.StatusNotFound, "user not found", "user_not_found", logger)
	default:
		RespondWithError(c, http.StatusInternalServerError, "internal server error", "internal_error", logger)
	}
}
