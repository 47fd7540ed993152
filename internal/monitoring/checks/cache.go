package checks

import (
	"context"
	"errors"
	"time"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/monitoring"
)

const (
	defaultCacheTimeout = 2 * time.Second
	cacheProbeKey       = "health:probe"
)

// Cache returns a probe that writes and reads back a short-lived key. Cache
// failures degrade the service since repositories fall back to the database.
func Cache(store cache.Store, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if store == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: "cache not configured"}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultCacheTimeout))
		defer cancel()

		stamp := []byte(start.UTC().Format(time.RFC3339Nano))
		if err := store.Set(probeCtx, cacheProbeKey, stamp, 10*time.Second); err != nil {
			return degraded(err, start)
		}
		if _, found, err := store.Get(probeCtx, cacheProbeKey); err != nil {
			return degraded(err, start)
		} else if !found {
			return degraded(errors.New("probe key missing after write"), start)
		}

		return monitoring.ProbeResult{Status: monitoring.StatusUp, Duration: time.Since(start)}
	})
}

func degraded(err error, start time.Time) monitoring.ProbeResult {
	result := monitoring.ResultFromError("cache", err, time.Since(start))
	result.Status = monitoring.StatusDegraded
	return result
}
