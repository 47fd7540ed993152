package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/pkg/logger"
	"github.com/charlesng35/storeadmin/pkg/metrics"
)

// ComputeFunc loads a value from the source of truth. found=false means the
// value does not exist; such results are never cached.
type ComputeFunc func(ctx context.Context) (value []byte, found bool, err error)

// Cache is the read-through cache injected into repositories.
type Cache interface {
	// GetOrCompute returns the cached value for key or stores the result of compute under it for ttl.
	GetOrCompute(ctx context.Context, key Key, ttl time.Duration, compute ComputeFunc) ([]byte, bool, error)
	// Evict drops keys. Failures are logged and never returned.
	Evict(ctx context.Context, keys ...Key)
}

// ReadThrough implements Cache over a Store. Concurrent misses on the same key
// each call compute; the last Set wins.
type ReadThrough struct {
	store Store
	log   *zap.Logger
}

// NewReadThrough wraps store. A nil store disables caching and every lookup computes.
func NewReadThrough(store Store) *ReadThrough {
	return &ReadThrough{
		store: store,
		log:   logger.WithModule("cache"),
	}
}

func (c *ReadThrough) GetOrCompute(ctx context.Context, key Key, ttl time.Duration, compute ComputeFunc) ([]byte, bool, error) {
	ctx = ensureContext(ctx)
	if c == nil || c.store == nil {
		return compute(ctx)
	}

	cached, ok, err := c.store.Get(ctx, key.String())
	switch {
	case err != nil:
		// Store failures fall back to the source of truth.
		metrics.CacheLookups.WithLabelValues(key.Resource(), "error").Inc()
		c.log.Warn("cache read failed; reading from database",
			zap.String("key", key.String()),
			zap.Error(err),
		)
		return compute(ctx)
	case ok:
		metrics.CacheLookups.WithLabelValues(key.Resource(), "hit").Inc()
		return cached, true, nil
	}

	metrics.CacheLookups.WithLabelValues(key.Resource(), "miss").Inc()
	value, found, err := compute(ctx)
	if err != nil || !found {
		return value, found, err
	}

	if err := c.store.Set(ctx, key.String(), value, ttl); err != nil {
		c.log.Warn("cache write failed",
			zap.String("key", key.String()),
			zap.Error(err),
		)
	}
	return value, true, nil
}

func (c *ReadThrough) Evict(ctx context.Context, keys ...Key) {
	if c == nil || c.store == nil || len(keys) == 0 {
		return
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.IsZero() {
			continue
		}
		names = append(names, key.String())
	}
	if len(names) == 0 {
		return
	}

	resource := keys[0].Resource()
	if err := c.store.Delete(ensureContext(ctx), names...); err != nil {
		metrics.CacheEvictions.WithLabelValues(resource, "error").Add(float64(len(names)))
		c.log.Warn("cache eviction failed",
			zap.Strings("keys", names),
			zap.Error(err),
		)
		return
	}
	metrics.CacheEvictions.WithLabelValues(resource, "ok").Add(float64(len(names)))
}

// GetOrComputeJSON is the typed form of Cache.GetOrCompute. Values are stored as JSON;
// an entry that no longer decodes into T is evicted and recomputed.
func GetOrComputeJSON[T any](ctx context.Context, c Cache, key Key, ttl time.Duration, fetch func(ctx context.Context) (T, bool, error)) (T, bool, error) {
	var (
		zero     T
		computed T
		fresh    bool
	)

	compute := func(ctx context.Context) ([]byte, bool, error) {
		value, found, err := fetch(ctx)
		if err != nil || !found {
			return nil, found, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, false, err
		}
		computed, fresh = value, true
		return payload, true, nil
	}

	payload, found, err := c.GetOrCompute(ctx, key, ttl, compute)
	if err != nil || !found {
		return zero, found, err
	}
	if fresh {
		return computed, true, nil
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		logger.WithModule("cache").Warn("discarding undecodable cache entry",
			zap.String("key", key.String()),
			zap.Error(err),
		)
		c.Evict(ctx, key)
		return fetch(ctx)
	}
	return out, true, nil
}
