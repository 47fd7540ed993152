package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/database"
	"github.com/charlesng35/storeadmin/internal/images"
	"github.com/charlesng35/storeadmin/internal/repository"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "json", cfg.Server.LogFormat)
	require.Equal(t, 60, cfg.Server.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)
	require.Equal(t, []string{"https://admin.example.com", "https://shop.example.com"}, cfg.Server.CORSOrigins)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis.example.com:6380", cfg.Cache.Redis.Address)
	require.Equal(t, 2, cfg.Cache.Redis.DB)
	require.Equal(t, 3*time.Second, cfg.Cache.Redis.Timeout)
	require.Equal(t, "storeadmin:", cfg.Cache.Redis.Prefix)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL.List)
	require.Equal(t, 90*time.Minute, cfg.Cache.TTL.Detail)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 12*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 3, cfg.Auth.Login.MaxAttempts)
	require.Equal(t, 2*time.Minute, cfg.Auth.Login.Window)
	require.Equal(t, "*/30 * * * *", cfg.Auth.Tokens.CleanupSchedule)

	require.Equal(t, "./public", cfg.Storage.Images.Root)
	require.Equal(t, int64(1048576), cfg.Storage.Images.MaxSize)
	require.Equal(t, []string{"png", "jpg"}, cfg.Storage.Images.Extensions)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.False(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, time.Hour, cfg.Cache.TTL.List)
	require.Equal(t, 2*time.Hour, cfg.Cache.TTL.Detail)
	require.Equal(t, 5, cfg.Auth.Login.MaxAttempts)
	require.Equal(t, "@hourly", cfg.Auth.Tokens.CleanupSchedule)
	require.Equal(t, []string{"jpeg", "png", "jpg", "gif"}, cfg.Storage.Images.Extensions)
	require.Empty(t, cfg.Auth.JWT.Secret)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("STOREADMIN_SERVER_PORT", "7070")
	t.Setenv("STOREADMIN_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Auth.JWT.Secret)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{
		JWT:   JWTSettings{Secret: "secret", Issuer: "issuer", TTL: 30 * time.Minute},
		Login: LoginSettings{MaxAttempts: 3, Window: 2 * time.Minute},
	}

	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, cfg.JWTServiceConfig())

	attempts, window := cfg.LoginLimits()
	require.Equal(t, 3, attempts)
	require.Equal(t, 2*time.Minute, window)
}

func TestAuthConfigAdaptersFallback(t *testing.T) {
	var cfg AuthConfig

	require.Equal(t, auth.DefaultAccessTokenTTL, cfg.JWTServiceConfig().AccessTokenTTL)

	attempts, window := cfg.LoginLimits()
	require.Equal(t, auth.DefaultLoginAttempts, attempts)
	require.Equal(t, auth.DefaultLoginWindow, window)
}

func TestCacheConfigAdapters(t *testing.T) {
	cfg := CacheConfig{
		Redis: RedisCacheConfig{Address: " 127.0.0.1:6379 ", Username: " user ", Password: "pw", DB: 1, Timeout: time.Second, Prefix: "p:"},
		TTL:   CacheTTLConfig{List: time.Minute},
	}

	require.Equal(t, cache.RedisConfig{
		Address:  "127.0.0.1:6379",
		Username: "user",
		Password: "pw",
		DB:       1,
		Timeout:  time.Second,
		Prefix:   "p:",
	}, cfg.RedisClientConfig())
	require.Equal(t, repository.TTLs{List: time.Minute}, cfg.CacheTTLs())
}

func TestStorageAdapters(t *testing.T) {
	cfg := Config{
		Server:  ServerConfig{BaseURL: "https://shop.example.com/"},
		Storage: StorageConfig{Images: ImageStorageConfig{Root: "./public", Dir: "/uploads/", Extensions: []string{".PNG", " jpg", ""}}},
	}

	require.Equal(t, images.LocalConfig{Root: "./public", BaseURL: "https://shop.example.com"}, cfg.ImageStoreConfig())
	require.Equal(t, "uploads", cfg.Storage.ImageDir())

	policy := cfg.Storage.ImagePolicy()
	require.Equal(t, images.DefaultMaxSize, policy.MaxSize)
	require.Equal(t, []string{"png", "jpg"}, policy.Extensions)

	require.Equal(t, defaultImageDir, StorageConfig{}.ImageDir())
	require.Equal(t, images.DefaultPolicy(), StorageConfig{}.ImagePolicy())
}

func TestDatabaseOptions(t *testing.T) {
	require.Equal(t, database.Config{Driver: "sqlite", Path: "data.db"}, DatabaseConfig{Path: " data.db "}.DatabaseOptions())

	pg := DatabaseConfig{
		Driver:   "PostgreSQL",
		Postgres: DBAuthConfig{Host: "db", Port: 5432, Database: "shop", Username: "u", Password: "p"},
	}.DatabaseOptions()
	require.Equal(t, "postgres", pg.Driver)
	require.Equal(t, "db", pg.Host)
	require.Equal(t, "shop", pg.Name)

	my := DatabaseConfig{Driver: "mariadb", MySQL: DBAuthConfig{Host: "mysql", Port: 3306}}.DatabaseOptions()
	require.Equal(t, "mysql", my.Driver)
	require.Equal(t, 3306, my.Port)

	require.Equal(t, "oracle", DatabaseConfig{Driver: "oracle"}.DatabaseOptions().Driver)
}

func TestLoadConfigFromPath(t *testing.T) {
	fromDir, err := LoadConfigFromPath("testdata")
	require.NoError(t, err)
	require.Equal(t, 9090, fromDir.Server.Port)

	fromFile, err := LoadConfigFromPath("testdata/config.yaml")
	require.NoError(t, err)
	require.Equal(t, 9090, fromFile.Server.Port)

	_, err = LoadConfigFromPath("testdata/missing")
	require.ErrorContains(t, err, "does not exist")
}
