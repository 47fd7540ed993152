package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/storeadmin/internal/cache"
)

// Option customises a cached repository.
type Option func(*settings)

type settings struct {
	ttl TTLs
}

// WithTTLs overrides the cache lifetimes.
func WithTTLs(ttl TTLs) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// Cached implements Repository for a soft-deletable model with a name column.
// Reads go through the cache; writes go to the database and evict afterwards.
type Cached[T any, I Input[T]] struct {
	db          *gorm.DB
	cache       cache.Cache
	keys        cache.Keyspace
	ttl         TTLs
	listColumns []string

	// afterDelete runs once a delete has been committed.
	afterDelete func(ctx context.Context, deleted *T)
}

// NewCached builds a repository over the table of T. listColumns are the
// columns returned by an unpaginated listing. A nil cache disables caching.
func NewCached[T any, I Input[T]](db *gorm.DB, c cache.Cache, keys cache.Keyspace, listColumns []string, opts ...Option) (*Cached[T, I], error) {
	if db == nil {
		return nil, errors.New("repository: db must not be nil")
	}
	if keys.Plural == "" || keys.Singular == "" {
		return nil, errors.New("repository: keyspace must name the resource")
	}
	if c == nil {
		c = cache.NewReadThrough(nil)
	}

	cfg := settings{ttl: DefaultTTLs()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cached[T, I]{
		db:          db,
		cache:       c,
		keys:        keys,
		ttl:         cfg.ttl.withDefaults(),
		listColumns: listColumns,
	}, nil
}

// Keys exposes the keyspace used for this resource.
func (r *Cached[T, I]) Keys() cache.Keyspace {
	return r.keys
}

// List returns page page of size pageSize. A pageSize of 0 returns every row
// with only the listing columns populated.
func (r *Cached[T, I]) List(ctx context.Context, page, pageSize int) (Page[T], error) {
	ctx = ensureContext(ctx)
	if page < 1 || pageSize < 0 || pageSize > MaxPageSize {
		return Page[T]{}, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, pageSize)
	}

	out, _, err := cache.GetOrComputeJSON(ctx, r.cache, r.keys.Page(page, pageSize), r.ttl.List,
		func(ctx context.Context) (Page[T], bool, error) {
			loaded, err := r.loadPage(ctx, page, pageSize)
			return loaded, err == nil, err
		})
	if err != nil {
		return Page[T]{}, fmt.Errorf("%s repository: list: %w", r.keys.Plural, err)
	}
	return out, nil
}

func (r *Cached[T, I]) loadPage(ctx context.Context, page, pageSize int) (Page[T], error) {
	items := make([]T, 0)

	if pageSize == 0 {
		query := r.db.WithContext(ctx).Model(new(T))
		if len(r.listColumns) > 0 {
			query = query.Select(r.listColumns)
		}
		if err := query.Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
		return Page[T]{Items: items, Page: page, PageSize: 0, Total: int64(len(items))}, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return Page[T]{}, err
	}

	return Page[T]{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

// FindByID returns the record with id. found is false when it does not exist
// or has been deleted.
func (r *Cached[T, I]) FindByID(ctx context.Context, id string) (*T, bool, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}

	entity, found, err := cache.GetOrComputeJSON(ctx, r.cache, r.keys.Entity(id), r.ttl.Detail,
		func(ctx context.Context) (*T, bool, error) {
			return r.take(r.db.WithContext(ctx), id, false)
		})
	if err != nil {
		return nil, false, fmt.Errorf("%s repository: find %s: %w", r.keys.Plural, id, err)
	}
	return entity, found, nil
}

// Create persists a new record and evicts the first listing page of every size.
func (r *Cached[T, I]) Create(ctx context.Context, input I) (*T, error) {
	ctx = ensureContext(ctx)
	if !input.Complete() {
		return nil, ErrIncompleteInput
	}

	entity := new(T)
	input.Apply(entity)

	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	}); err != nil {
		return nil, fmt.Errorf("%s repository: create: %w", r.keys.Plural, err)
	}

	r.cache.Evict(ctx, r.keys.FirstPages(MaxPageSize)...)
	return entity, nil
}

// Update applies input to the record with id. A missing record is reported
// with found=false and leaves both the database and the cache untouched.
func (r *Cached[T, I]) Update(ctx context.Context, id string, input I, mode UpdateMode) (*T, bool, error) {
	ctx = ensureContext(ctx)
	if mode == UpdateFull && !input.Complete() {
		return nil, false, ErrIncompleteUpdate
	}

	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, found, err := r.take(tx, id, true)
		if err != nil || !found {
			return err
		}

		input.Apply(entity)
		if err := tx.Save(entity).Error; err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s repository: update %s: %w", r.keys.Plural, id, err)
	}
	if updated == nil {
		return nil, false, nil
	}

	r.cache.Evict(ctx, r.keys.Entity(id))
	return updated, true, nil
}

// Delete soft deletes the record with id and evicts its cache entry.
func (r *Cached[T, I]) Delete(ctx context.Context, id string) (*T, bool, error) {
	ctx = ensureContext(ctx)

	var deleted *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, found, err := r.take(tx, id, true)
		if err != nil || !found {
			return err
		}

		if err := tx.Delete(entity).Error; err != nil {
			return err
		}
		deleted = entity
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s repository: delete %s: %w", r.keys.Plural, id, err)
	}
	if deleted == nil {
		return nil, false, nil
	}

	r.cache.Evict(ctx, r.keys.Entity(id))
	if r.afterDelete != nil {
		r.afterDelete(ctx, deleted)
	}
	return deleted, true, nil
}

// NameTaken reports whether another live record already uses name. The
// comparison ignores case and surrounding whitespace.
func (r *Cached[T, I]) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	ctx = ensureContext(ctx)

	query := r.db.WithContext(ctx).Model(new(T)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("%s repository: check name: %w", r.keys.Plural, err)
	}
	return count > 0, nil
}

func (r *Cached[T, I]) take(db *gorm.DB, id string, lock bool) (*T, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, nil
	}
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	entity := new(T)
	err := db.Where("id = ?", id).Take(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entity, true, nil
}
