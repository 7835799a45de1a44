package providers

import (
	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/ratelimit"
)

// AuthKey wraps the token signing key.
type AuthKey string

// ProvideAuthKey returns the configured JWT secret or, outside
// production, a key generated and persisted alongside the data.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.JWTSecret != "" {
		return AuthKey(cfg.Auth.JWTSecret), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Database.DataPath)
	if err != nil {
		return "", err
	}

	log.Info("Authentication key loaded",
		"token_duration", cfg.Auth.TokenDuration,
		"otp_ttl", cfg.Auth.OTPTTL,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the JWT token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.TokenDuration)
}

// ProvideOTPStore provides the in-memory one-time code store.
func ProvideOTPStore(i do.Injector) (*auth.OTPStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewOTPStore(cfg.Auth.OTPTTL), nil
}

// OTPLimiterHandle wraps the per-phone OTP rate limiter for lifecycle management.
type OTPLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *OTPLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideOTPLimiter provides the per-phone OTP request limiter: one
// code a minute per number, small burst for retries.
func ProvideOTPLimiter(i do.Injector) (*OTPLimiterHandle, error) {
	return &OTPLimiterHandle{KeyedRateLimiter: ratelimit.New(1.0/60, 3)}, nil
}
