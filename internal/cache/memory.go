package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore keeps entries in process memory. It backs single instance
// deployments without Redis and the test suites.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     Clock
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for expiry.
func WithMemoryClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || entry.expired(now) {
		entry = memoryEntry{value: []byte("1"), expiresAt: now.Add(window)}
		s.entries[key] = entry
		return 1, window, nil
	}

	current, _ := strconv.ParseInt(string(entry.value), 10, 64)
	current++
	entry.value = []byte(strconv.FormatInt(current, 10))
	s.entries[key] = entry
	return current, entry.expiresAt.Sub(now), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for _, entry := range s.entries {
		if !entry.expired(now) {
			count++
		}
	}
	return count
}
