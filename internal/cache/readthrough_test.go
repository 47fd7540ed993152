package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/storeadmin/pkg/logger"
)

type failingStore struct {
	*MemoryStore
	getErr    error
	setErr    error
	deleteErr error
	sets      int
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func (s *failingStore) Delete(ctx context.Context, keys ...string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, keys...)
}

var brands = NewKeyspace("brands", "brand")

func counting(value []byte, found bool, err error) (ComputeFunc, *int) {
	calls := 0
	return func(context.Context) ([]byte, bool, error) {
		calls++
		return value, found, err
	}, &calls
}

func TestGetOrComputeCachesFoundValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewReadThrough(store)
	compute, calls := counting([]byte("nike"), true, nil)

	for i := 0; i < 3; i++ {
		value, found, err := c.GetOrCompute(ctx, brands.Entity("1"), time.Hour, compute)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("nike"), value)
	}
	require.Equal(t, 1, *calls)
}

func TestGetOrComputeHonoursTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewReadThrough(NewMemoryStore(WithMemoryClock(clock.Now)))
	compute, calls := counting([]byte("page"), true, nil)

	_, _, _ = c.GetOrCompute(ctx, brands.Page(1, 10), time.Hour, compute)
	clock.Advance(59 * time.Minute)
	_, _, _ = c.GetOrCompute(ctx, brands.Page(1, 10), time.Hour, compute)
	require.Equal(t, 1, *calls)

	clock.Advance(time.Minute)
	_, _, _ = c.GetOrCompute(ctx, brands.Page(1, 10), time.Hour, compute)
	require.Equal(t, 2, *calls)
}

func TestGetOrComputeDoesNotCacheAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewReadThrough(store)
	compute, calls := counting(nil, false, nil)

	for i := 0; i < 2; i++ {
		_, found, err := c.GetOrCompute(ctx, brands.Entity("missing"), time.Hour, compute)
		require.NoError(t, err)
		require.False(t, found)
	}
	require.Equal(t, 2, *calls)
	require.Zero(t, store.Len())
}

func TestGetOrComputePropagatesComputeErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewReadThrough(store)
	boom := errors.New("database is locked")
	compute, _ := counting(nil, false, boom)

	_, _, err := c.GetOrCompute(ctx, brands.Entity("1"), time.Hour, compute)
	require.ErrorIs(t, err, boom)
	require.Zero(t, store.Len())
}

func TestGetOrComputeFallsBackWhenStoreUnavailable(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore(), getErr: errors.New("dial tcp: connection refused")}
	c := NewReadThrough(store)
	compute, calls := counting([]byte("nike"), true, nil)

	value, found, err := c.GetOrCompute(ctx, brands.Entity("1"), time.Hour, compute)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("nike"), value)
	require.Equal(t, 1, *calls)
	require.Zero(t, store.sets)
	require.Equal(t, 1, recorded.FilterMessage("cache read failed; reading from database").Len())
}

func TestGetOrComputeIgnoresWriteFailures(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore(), setErr: errors.New("OOM command not allowed")}
	c := NewReadThrough(store)
	compute, calls := counting([]byte("nike"), true, nil)

	value, found, err := c.GetOrCompute(ctx, brands.Entity("1"), time.Hour, compute)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("nike"), value)

	_, _, _ = c.GetOrCompute(ctx, brands.Entity("1"), time.Hour, compute)
	require.Equal(t, 2, *calls)
}

func TestEvictRemovesKeysAndSwallowsErrors(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	c := NewReadThrough(store)

	require.NoError(t, store.Set(ctx, "brand_1", []byte("x"), time.Hour))
	require.NoError(t, store.Set(ctx, "brand_2", []byte("y"), time.Hour))

	c.Evict(ctx, brands.Entity("1"), Key{})
	_, ok, _ := store.Get(ctx, "brand_1")
	require.False(t, ok)
	_, ok, _ = store.Get(ctx, "brand_2")
	require.True(t, ok)

	store.deleteErr = errors.New("broken pipe")
	require.NotPanics(t, func() { c.Evict(ctx, brands.Entity("2")) })
	require.Equal(t, 1, recorded.FilterMessage("cache eviction failed").Len())
}

func TestNilStoreAlwaysComputes(t *testing.T) {
	c := NewReadThrough(nil)
	compute, calls := counting([]byte("v"), true, nil)

	_, _, _ = c.GetOrCompute(context.Background(), brands.Entity("1"), time.Hour, compute)
	_, _, _ = c.GetOrCompute(context.Background(), brands.Entity("1"), time.Hour, compute)
	c.Evict(context.Background(), brands.Entity("1"))
	require.Equal(t, 2, *calls)
}

type brandView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrComputeJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewReadThrough(NewMemoryStore())
	calls := 0
	fetch := func(context.Context) (brandView, bool, error) {
		calls++
		return brandView{ID: "1", Name: "Nike"}, true, nil
	}

	first, found, err := GetOrComputeJSON(ctx, c, brands.Entity("1"), time.Hour, fetch)
	require.NoError(t, err)
	require.True(t, found)

	second, found, err := GetOrComputeJSON(ctx, c, brands.Entity("1"), time.Hour, fetch)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestGetOrComputeJSONRecomputesUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewReadThrough(store)
	require.NoError(t, store.Set(ctx, "brand_1", []byte("not json"), time.Hour))

	calls := 0
	out, found, err := GetOrComputeJSON(ctx, c, brands.Entity("1"), time.Hour, func(context.Context) (brandView, bool, error) {
		calls++
		return brandView{ID: "1", Name: "Nike"}, true, nil
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Nike", out.Name)
	require.Equal(t, 1, calls)

	_, ok, _ := store.Get(ctx, "brand_1")
	require.False(t, ok)
}

func TestGetOrComputeJSONAbsent(t *testing.T) {
	c := NewReadThrough(NewMemoryStore())

	out, found, err := GetOrComputeJSON(context.Background(), c, brands.Entity("x"), time.Hour, func(context.Context) (*brandView, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, out)
}
