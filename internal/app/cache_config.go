package app

import (
	"strings"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/repository"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   c.Redis.Prefix,
	}
}

// CacheTTLs returns the repository cache lifetimes. Zero values fall back to the repository defaults.
func (c CacheConfig) CacheTTLs() repository.TTLs {
	return repository.TTLs{List: c.TTL.List, Detail: c.TTL.Detail}
}
