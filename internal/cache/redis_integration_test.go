//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("STOREADMIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOREADMIN_TEST_REDIS_ADDR not set")
	}

	store, err := NewRedisStore(context.Background(), RedisConfig{
		Address: addr,
		Prefix:  "storeadmin-test:" + uuid.NewString() + ":",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	_, ok, err := store.Get(ctx, "brand_1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "brand_1", []byte("nike"), time.Minute))
	value, ok, err := store.Get(ctx, "brand_1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("nike"), value)

	require.NoError(t, store.Delete(ctx, "brand_1"))
	_, ok, err = store.Get(ctx, "brand_1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreIncrementWithTTL(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	count, ttl, err := store.IncrementWithTTL(ctx, "login:a@example.com", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.LessOrEqual(t, ttl, time.Minute)

	count, _, err = store.IncrementWithTTL(ctx, "login:a@example.com", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
