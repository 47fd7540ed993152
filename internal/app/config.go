package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the store admin backend.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is "json" or "console".
	LogFormat string `mapstructure:"log_format"`
	// BaseURL prefixes public links such as uploaded image URLs.
	BaseURL string `mapstructure:"base_url"`
	// RateLimit caps requests per client IP across the API.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// CORSOrigins lists browser origins allowed to call the API. "*" allows any.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// RateLimitConfig bounds the global request rate.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CacheConfig describes cache backends and lifetimes.
type CacheConfig struct {
	Redis RedisCacheConfig `mapstructure:"redis"`
	TTL   CacheTTLConfig   `mapstructure:"ttl"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TLS      bool          `mapstructure:"tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Prefix   string        `mapstructure:"prefix"`
}

// CacheTTLConfig sets how long listings and single records stay cached.
type CacheTTLConfig struct {
	List   time.Duration `mapstructure:"list"`
	Detail time.Duration `mapstructure:"detail"`
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	JWT    JWTSettings   `mapstructure:"jwt"`
	Login  LoginSettings `mapstructure:"login"`
	Tokens TokenSettings `mapstructure:"tokens"`
}

// JWTSettings configures bearer token signing.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// LoginSettings throttles login attempts per email.
type LoginSettings struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Window      time.Duration `mapstructure:"window"`
}

// TokenSettings controls personal access token housekeeping.
type TokenSettings struct {
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

// StorageConfig groups file storage settings.
type StorageConfig struct {
	Images ImageStorageConfig `mapstructure:"images"`
}

// ImageStorageConfig configures where uploaded images live and what is accepted.
type ImageStorageConfig struct {
	Root       string   `mapstructure:"root"`
	Dir        string   `mapstructure:"dir"`
	MaxSize    int64    `mapstructure:"max_size"`
	Extensions []string `mapstructure:"extensions"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("STOREADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// LoadConfigFromPath loads configuration from a directory or from the directory
// holding the given file. An empty path searches the default locations.
func LoadConfigFromPath(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return LoadConfig()
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return LoadConfig(path)
	case err == nil:
		return LoadConfig(filepath.Dir(path))
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config path %q does not exist", path)
	default:
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.rate_limit.requests", 120)
	v.SetDefault("server.rate_limit.window", "1m")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/storeadmin.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.username", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.mysql.host", "")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.database", "")
	v.SetDefault("database.mysql.username", "")
	v.SetDefault("database.mysql.password", "")

	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.tls", false)
	v.SetDefault("cache.redis.timeout", "5s")
	v.SetDefault("cache.redis.prefix", "storeadmin:")
	v.SetDefault("cache.ttl.list", "1h")
	v.SetDefault("cache.ttl.detail", "2h")

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "storeadmin")
	v.SetDefault("auth.jwt.access_token_ttl", "24h")
	v.SetDefault("auth.login.max_attempts", 5)
	v.SetDefault("auth.login.window", "1m")
	v.SetDefault("auth.tokens.cleanup_schedule", "@hourly")

	v.SetDefault("storage.images.root", ".")
	v.SetDefault("storage.images.dir", "assets/uploads/categories")
	v.SetDefault("storage.images.max_size", 2<<20)
	v.SetDefault("storage.images.extensions", []string{"jpeg", "png", "jpg", "gif"})

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
