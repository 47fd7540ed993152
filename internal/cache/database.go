package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/storeadmin/internal/models"
)

var errDatabaseStoreNotInitialised = errors.New("cache: database store not initialised")

var keyColumn = clause.Column{Name: "key"}

// DatabaseStore implements the cache Store interface using the primary SQL database.
type DatabaseStore struct {
	db  *gorm.DB
	now Clock
}

// NewDatabaseStore constructs a database-backed Store.
func NewDatabaseStore(db *gorm.DB, clock ...Clock) *DatabaseStore {
	if db == nil {
		return nil
	}
	store := &DatabaseStore{db: db, now: time.Now}
	if len(clock) > 0 && clock[0] != nil {
		store.now = clock[0]
	}
	return store
}

// IncrementWithTTL atomically increments a counter for the supplied key.
func (s *DatabaseStore) IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s == nil {
		return 0, 0, errDatabaseStoreNotInitialised
	}
	if window <= 0 {
		window = time.Minute
	}

	now := s.now().UTC()
	var (
		count  int64
		expiry time.Time
	)

	err := s.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		var entry models.CacheEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(clause.Eq{Column: keyColumn, Value: key}).
			Take(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			count = 1
			expiry = now.Add(window)
			entry = models.CacheEntry{
				Key:       key,
				Value:     []byte("1"),
				ExpiresAt: expiry,
			}
			return tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		if entry.Expired(now) {
			count = 1
			entry.ExpiresAt = now.Add(window)
		} else {
			current, _ := strconv.ParseInt(string(entry.Value), 10, 64)
			count = current + 1
		}
		entry.Value = []byte(strconv.FormatInt(count, 10))
		expiry = entry.ExpiresAt

		return tx.Save(&entry).Error
	})
	if err != nil {
		return 0, 0, err
	}

	return count, expiry.Sub(now), nil
}

// Set upserts the value for a given key with expiry.
func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}

	expiry := time.Time{}
	if ttl > 0 {
		expiry = s.now().UTC().Add(ttl)
	}

	entry := models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiry,
	}

	return s.db.WithContext(ensureContext(ctx)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{keyColumn},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).Create(&entry).Error
}

// Get retrieves a value by key, respecting expiry.
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, errDatabaseStoreNotInitialised
	}
	ctx = ensureContext(ctx)

	var entry models.CacheEntry
	err := s.db.WithContext(ctx).Where(clause.Eq{Column: keyColumn, Value: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if entry.Expired(s.now().UTC()) {
		_ = s.Delete(ctx, key)
		return nil, false, nil
	}

	return entry.Value, true, nil
}

// Delete removes keys from the store.
func (s *DatabaseStore) Delete(ctx context.Context, keys ...string) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}
	if len(keys) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		values = append(values, key)
	}
	return s.db.WithContext(ensureContext(ctx)).
		Where(clause.IN{Column: keyColumn, Values: values}).
		Delete(&models.CacheEntry{}).Error
}

// PurgeExpired removes entries whose expiry has passed and returns how many were deleted.
func (s *DatabaseStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, errDatabaseStoreNotInitialised
	}

	result := s.db.WithContext(ensureContext(ctx)).
		Where("expires_at > ? AND expires_at <= ?", time.Time{}, s.now().UTC()).
		Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}
