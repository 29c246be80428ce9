package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttemptsTotal counts login attempts by outcome reason.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// AccountLockoutsTotal counts accounts locked by the brute-force guard.
	AccountLockoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_account_lockouts_total",
		Help: "The total number of account lockouts",
	})

	// TokenRefreshTotal counts refresh operations by outcome.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_token_refresh_total",
		Help: "The total number of token refreshes",
	}, []string{"status"})

	// RefreshReuseDetectedTotal counts presentations of already rotated
	// refresh tokens.
	RefreshReuseDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_refresh_reuse_detected_total",
		Help: "The total number of refresh token reuse detections",
	})

	// LogoutsTotal counts logout requests.
	LogoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_logouts_total",
		Help: "The total number of logouts",
	})

	// TokenVerificationsTotal counts access token verifications by outcome.
	TokenVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_token_verifications_total",
		Help: "The total number of access token verifications",
	}, []string{"status"})

	// MfaOperationsTotal counts two-factor lifecycle operations.
	MfaOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_mfa_operations_total",
		Help: "The total number of two-factor operations",
	}, []string{"operation", "status"})
)
