package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/models"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/handler/http/middleware"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/service"
)

// AuthHandler serves the login, refresh, logout and verify endpoints.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type loginRequest struct {
	Identifier   string `json:"identifier" binding:"required"`
	Password     string `json:"password" binding:"required"`
	TOTPCode     string `json:"totp_code"`
	CaptchaToken string `json:"captcha_token"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "identifier and password are required", "validation_error", h.logger)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), models.LoginInput{
		Identifier:   req.Identifier,
		Password:     req.Password,
		TOTPCode:     req.TOTPCode,
		CaptchaToken: req.CaptchaToken,
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		respondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "refresh_token is required", "validation_error", h.logger)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, pair)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout handles POST /api/v1/auth/logout. Runs behind AuthMiddleware so
// the raw access token is available in the context.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	// Body is optional: logout without a refresh token only denylists
	// the access token.
	_ = c.ShouldBindJSON(&req)

	rawToken := c.GetString(middleware.GinContextRawTokenKey)
	h.authService.Logout(c.Request.Context(), rawToken, req.RefreshToken)
	RespondWithMessage(c, http.StatusOK, "logged out")
}

// Verify handles GET /api/v1/auth/verify. AuthMiddleware has already
// validated the token; this just echoes the principal back.
func (h *AuthHandler) Verify(c *gin.Context) {
	RespondWithData(c, http.StatusOK, gin.H{
		"user_id": c.GetString(middleware.GinContextUserIDKey),
		"role":    c.GetString(middleware.GinContextRoleKey),
	})
}
