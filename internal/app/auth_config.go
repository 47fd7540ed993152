package app

import (
	"time"

	"github.com/charlesng35/storeadmin/internal/auth"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// LoginLimits returns the attempt budget and window for login throttling.
func (c AuthConfig) LoginLimits() (int, time.Duration) {
	attempts := c.Login.MaxAttempts
	if attempts <= 0 {
		attempts = auth.DefaultLoginAttempts
	}

	window := c.Login.Window
	if window <= 0 {
		window = auth.DefaultLoginWindow
	}

	return attempts, window
}
