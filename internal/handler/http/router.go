package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/handler/http/middleware"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/service"
)

// SetupRouter wires the HTTP surface of the auth service.
func SetupRouter(authService *service.AuthService, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(authService, logger)
	mfaHandler := NewMfaHandler(authService, logger)
	requireAuth := middleware.AuthMiddleware(authService, logger)

	v1 := router.Group("/api/v1/auth")
	{
		v1.POST("/login", authHandler.Login)
		v1.POST("/refresh", authHandler.Refresh)

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/verify", authHandler.Verify)
			protected.POST("/2fa/setup", mfaHandler.Setup)
			protected.POST("/2fa/enable", mfaHandler.Enable)
			protected.POST("/2fa/disable", mfaHandler.Disable)
		}
	}

	return router
}
