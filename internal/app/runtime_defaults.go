package app

import (
	"fmt"
	"strings"

	"github.com/charlesng35/storeadmin/pkg/crypto"
)

const (
	jwtSecretBytes = 48
	defaultPort    = 8000
)

// ApplyRuntimeDefaults fills values the server cannot start without when no
// configuration file supplied them. The returned map names every generated
// key so callers can log the event without exposing values.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	generated := make(map[string]bool)

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := crypto.GenerateToken(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		generated["auth.jwt.secret"] = true
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = defaultPort
		generated["server.port"] = true
	}

	// Image URLs are built from the base URL, so it follows the port.
	if strings.TrimSpace(cfg.Server.BaseURL) == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		generated["server.base_url"] = true
	}

	if strings.TrimSpace(cfg.Storage.Images.Dir) == "" {
		cfg.Storage.Images.Dir = defaultImageDir
		generated["storage.images.dir"] = true
	}

	return generated, nil
}
