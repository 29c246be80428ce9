package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/events/kafka"
	httpHandler "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/handler/http"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/infrastructure/captcha"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/infrastructure/database"
	redisInfra "github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/infrastructure/redis"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/infrastructure/security"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/service"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/utils/logger"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.Database.AutoMigrate {
		log.Info("Running database migrations")
		if err := migrations.Up(cfg.Database.DSN()); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		log.Info("Migrations applied")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := database.NewDBPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize PostgreSQL connection pool", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		publisher = producer
	} else {
		log.Info("No Kafka brokers configured, event publishing disabled")
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	userRepo := database.NewPgxUserRepository(dbPool)
	refreshTokenRepo := database.NewPgxRefreshTokenRepository(dbPool)
	loginAttemptRepo := database.NewPgxLoginAttemptRepository(dbPool)
	txManager := database.NewPgxTxManager(dbPool)

	passwordService := security.NewBcryptPasswordService(cfg.Security.BcryptCost)
	tokenService, err := security.NewJWTTokenService(cfg.JWT)
	if err != nil {
		log.Fatal("Failed to initialize token service", zap.Error(err))
	}
	totpService := security.NewPquernaTOTPService(cfg.MFA.TOTPIssuerName)
	tokenDenylist := redisInfra.NewTokenDenylist(redisClient, log)

	captchaService := captcha.NewNoopCaptchaService()
	if cfg.Captcha.Enabled {
		captchaService = captcha.NewRecaptchaService(cfg.Captcha, log)
	}

	authService := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		loginAttemptRepo,
		txManager,
		passwordService,
		tokenService,
		totpService,
		captchaService,
		tokenDenylist,
		publisher,
		cfg,
		log,
	)

	// Periodic ledger pruning.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := refreshTokenRepo.DeleteExpiredAndRevoked(ctx, cfg.Security.RevokedTokenRetention)
				if err != nil {
					log.Error("Refresh token cleanup failed", zap.Error(err))
					continue
				}
				if deleted > 0 {
					log.Info("Pruned refresh token ledger", zap.Int64("deleted", deleted))
				}
			}
		}
	}()

	router := httpHandler.SetupRouter(authService, cfg, log)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
