package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/service"
)

const (
	authHeaderKey  = "Authorization"
	authTypeBearer = "bearer"

	// Gin context keys set by AuthMiddleware.
	GinContextUserIDKey    = "userID"
	GinContextRoleKey      = "role"
	GinContextRawTokenKey  = "rawAccessToken"
	GinContextPrincipalKey = "principal"
)

// AuthMiddleware authenticates requests with a bearer access token,
// rejecting denylisted tokens, and stores the verified principal and the
// raw token in the gin context.
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required", "code": "unauthorized"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != authTypeBearer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer <token>", "code": "unauthorized"})
			return
		}

		token := parts[1]
		principal, err := authService.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Rejected access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "code": "unauthorized"})
			return
		}

		c.Set(GinContextUserIDKey, principal.UserID)
		c.Set(GinContextRoleKey, string(principal.Role))
		c.Set(GinContextRawTokenKey, token)
		c.Set(GinContextPrincipalKey, principal)

		c.Next()
	}
}
