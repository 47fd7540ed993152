package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/pkg/logger"
)

const (
	// DefaultLoginAttempts is the number of attempts allowed per window.
	DefaultLoginAttempts = 5
	// DefaultLoginWindow is the throttling window for login attempts.
	DefaultLoginWindow = time.Minute

	loginLimiterKeyPrefix = "auth:login:"
)

// LoginLimiter throttles login attempts per email address.
type LoginLimiter struct {
	store  cache.Store
	max    int64
	window time.Duration
	log    *zap.Logger
}

// NewLoginLimiter builds a limiter over the shared cache store. Zero values
// fall back to 5 attempts per minute. A nil store disables throttling.
func NewLoginLimiter(store cache.Store, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultLoginAttempts
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	return &LoginLimiter{
		store:  store,
		max:    int64(maxAttempts),
		window: window,
		log:    logger.WithModule("login-limiter"),
	}
}

// Hit records an attempt for email and reports whether it must be rejected,
// together with the time left until the window resets.
func (l *LoginLimiter) Hit(ctx context.Context, email string) (bool, time.Duration) {
	if l == nil || l.store == nil {
		return false, 0
	}

	count, ttl, err := l.store.IncrementWithTTL(ctx, loginLimiterKey(email), l.window)
	if err != nil {
		l.log.Warn("login limiter unavailable; allowing attempt", zap.Error(err))
		return false, 0
	}
	return count > l.max, ttl
}

// Reset clears the attempts recorded for email.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.Delete(ctx, loginLimiterKey(email)); err != nil {
		l.log.Warn("failed to reset login attempts", zap.Error(err))
	}
}

func loginLimiterKey(email string) string {
	return loginLimiterKeyPrefix + normaliseEmail(email)
}
