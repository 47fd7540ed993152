package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/pkg/logger"
)

const (
	defaultTokenSpec = "@hourly"
	defaultCacheSpec = "@hourly"
)

// TokenCleaner removes personal access tokens that can no longer authenticate.
type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// CachePurger drops expired cache rows.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stats reports how many records a cleanup pass removed.
type Stats struct {
	Tokens       int64
	CacheEntries int64
}

// Cleaner coordinates background maintenance: deleting expired tokens and purging
// expired rows of the database cache backend.
type Cleaner struct {
	tokens  TokenCleaner
	purger  CachePurger
	cron    *cron.Cron
	log     *zap.Logger
	started bool

	tokenSchedule string
	cacheSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithTokenSchedule overrides the cron expression for token cleanup.
func WithTokenSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.tokenSchedule = spec
		}
	}
}

// WithCacheSchedule overrides the cron expression for cache purging.
func WithCacheSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cacheSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil dependency skips the corresponding job.
func NewCleaner(tokens TokenCleaner, purger CachePurger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		tokens:        tokens,
		purger:        purger,
		tokenSchedule: defaultTokenSpec,
		cacheSchedule: defaultCacheSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup jobs and launches the scheduler when at least one job exists.
func (c *Cleaner) Start() error {
	if c.tokens == nil && c.purger == nil {
		return nil
	}

	if c.tokens != nil {
		if _, err := c.cron.AddFunc(c.tokenSchedule, func() {
			deleted, err := c.tokens.CleanupExpired(context.Background())
			if err != nil {
				c.log.Warn("token cleanup failed", zap.Error(err))
				return
			}
			if deleted > 0 {
				c.log.Info("expired tokens deleted", zap.Int64("count", deleted))
			}
		}); err != nil {
			return err
		}
	}

	if c.purger != nil {
		if _, err := c.cron.AddFunc(c.cacheSchedule, func() {
			if _, err := c.purger.PurgeExpired(context.Background()); err != nil {
				c.log.Warn("cache purge failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	c.started = true
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil || !c.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	c.started = false
	return c.cron.Stop()
}

// RunOnce executes every configured cleanup routine sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		stats Stats
		errs  error
	)

	if c.tokens != nil {
		deleted, err := c.tokens.CleanupExpired(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		stats.Tokens = deleted
	}

	if c.purger != nil {
		purged, err := c.purger.PurgeExpired(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		stats.CacheEntries = purged
	}

	return stats, errs
}
