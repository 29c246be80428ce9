package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/handler/http/middleware"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/service"
)

// MfaHandler serves the two-factor enrollment lifecycle endpoints. All of
// them run behind AuthMiddleware.
type MfaHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewMfaHandler creates a new MfaHandler.
func NewMfaHandler(authService *service.AuthService, logger *zap.Logger) *MfaHandler {
	return &MfaHandler{authService: authService, logger: logger}
}

func (h *MfaHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.GinContextUserIDKey))
	if err != nil {
		RespondWithError(c, http.StatusUnauthorized, "invalid principal", "unauthorized", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// Setup handles POST /api/v1/auth/2fa/setup.
func (h *MfaHandler) Setup(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.authService.BeginMfaEnrollment(c.Request.Context(), userID)
	if err != nil {
		respondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, enrollment)
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// Enable handles POST /api/v1/auth/2fa/enable.
func (h *MfaHandler) Enable(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req mfaCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		RespondWithError(c, http.StatusBadRequest, "code is required", "validation_error", h.logger)
		return
	}

	if err := h.authService.ConfirmMfaEnrollment(c.Request.Context(), userID, req.Code); err != nil {
		respondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "two-factor authentication enabled")
}

// Disable handles POST /api/v1/auth/2fa/disable.
func (h *MfaHandler) Disable(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req mfaCodeRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.DisableMfa(c.Request.Context(), userID, req.Code); err != nil {
		respondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "two-factor authentication disabled")
}
