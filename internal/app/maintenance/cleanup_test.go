package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/database/testutil"
	"github.com/charlesng35/storeadmin/internal/models"
)

type stubCleaner struct {
	deleted int64
	err     error
	calls   int
}

func (s *stubCleaner) CleanupExpired(context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func (s *stubCleaner) PurgeExpired(context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ctx := context.Background()

	current := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "secret", AccessTokenTTL: time.Hour, Clock: now})
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(db, jwtSvc, auth.TokenConfig{Clock: now})
	require.NoError(t, err)

	user := &models.User{Name: "Admin", Email: "admin@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	_, err = tokens.Issue(ctx, user.ID, "", nil)
	require.NoError(t, err)

	store := cache.NewDatabaseStore(db, now)
	require.NoError(t, store.Set(ctx, "brands_page_1_paginate_10", []byte("[]"), time.Minute))
	require.NoError(t, store.Set(ctx, "brand_1", []byte("{}"), 3*time.Hour))

	current = current.Add(2 * time.Hour)
	fresh, err := tokens.Issue(ctx, user.ID, "", nil)
	require.NoError(t, err)

	cleaner := NewCleaner(tokens, store)
	stats, err := cleaner.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{Tokens: 1, CacheEntries: 1}, stats)

	var remaining []models.PersonalAccessToken
	require.NoError(t, db.Unscoped().Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, fresh.Record.ID, remaining[0].ID)

	_, found, err := store.Get(ctx, "brand_1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestCleanerRunOnceAggregatesErrors(t *testing.T) {
	tokens := &stubCleaner{err: errors.New("tokens down")}
	purger := &stubCleaner{err: errors.New("cache down")}

	_, err := NewCleaner(tokens, purger).RunOnce(context.Background())
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.Equal(t, 1, tokens.calls)
	require.Equal(t, 1, purger.calls)
}

func TestCleanerStartRegistersJobs(t *testing.T) {
	c := cron.New()
	cleaner := NewCleaner(&stubCleaner{}, &stubCleaner{}, WithCron(c), WithTokenSchedule("@every 1h"), WithCacheSchedule("@every 2h"))

	require.NoError(t, cleaner.Start())
	t.Cleanup(func() { <-cleaner.Stop().Done() })

	require.Len(t, c.Entries(), 2)
}

func TestCleanerStartWithoutJobs(t *testing.T) {
	c := cron.New()
	cleaner := NewCleaner(nil, nil, WithCron(c))

	require.NoError(t, cleaner.Start())
	require.Empty(t, c.Entries())
	<-cleaner.Stop().Done()
}

func TestCleanerRejectsInvalidSchedule(t *testing.T) {
	cleaner := NewCleaner(&stubCleaner{}, nil, WithCron(cron.New()), WithTokenSchedule("not a schedule"))
	require.Error(t, cleaner.Start())
}
