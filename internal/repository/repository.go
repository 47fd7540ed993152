package repository

import (
	"context"
	"errors"
	"time"
)

// UpdateMode selects between merging supplied fields and replacing all of them.
type UpdateMode int

const (
	// UpdatePartial changes only the fields present in the input (PATCH).
	UpdatePartial UpdateMode = iota
	// UpdateFull requires and overwrites every field (PUT).
	UpdateFull
)

func (m UpdateMode) String() string {
	switch m {
	case UpdatePartial:
		return "partial"
	case UpdateFull:
		return "full"
	default:
		return "unknown"
	}
}

const (
	// DefaultListTTL is how long listing pages stay cached.
	DefaultListTTL = time.Hour
	// DefaultDetailTTL is how long single records stay cached.
	DefaultDetailTTL = 2 * time.Hour
	// MaxPageSize bounds the page size accepted by List.
	MaxPageSize = 100
)

var (
	// ErrIncompleteInput is returned by Create when a required field is missing.
	ErrIncompleteInput = errors.New("repository: input is missing required fields")
	// ErrIncompleteUpdate is returned by a full update that does not supply every field.
	ErrIncompleteUpdate = errors.New("repository: full update requires every field")
	// ErrInvalidPage is returned for a page below 1 or a page size outside [0, MaxPageSize].
	ErrInvalidPage = errors.New("repository: invalid page")
)

// TTLs configures cache lifetimes.
type TTLs struct {
	List   time.Duration
	Detail time.Duration
}

// DefaultTTLs returns one hour for listings and two hours for records.
func DefaultTTLs() TTLs {
	return TTLs{List: DefaultListTTL, Detail: DefaultDetailTTL}
}

func (t TTLs) withDefaults() TTLs {
	if t.List <= 0 {
		t.List = DefaultListTTL
	}
	if t.Detail <= 0 {
		t.Detail = DefaultDetailTTL
	}
	return t
}

// Page is one slice of a listing. A PageSize of 0 means the listing holds every row.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// Input is the write model of a resource. Fields are optional so the same
// value serves creates, full updates and partial updates.
type Input[T any] interface {
	// Complete reports whether every field is supplied.
	Complete() bool
	// Apply copies the supplied fields onto entity.
	Apply(entity *T)
}

// Repository is the contract shared by the cached catalogue resources.
//
// Absent records are reported through the boolean result, never as an error.
// Writes run in a transaction and invalidate cache keys after commit.
type Repository[T any, I Input[T]] interface {
	List(ctx context.Context, page, pageSize int) (Page[T], error)
	FindByID(ctx context.Context, id string) (*T, bool, error)
	Create(ctx context.Context, input I) (*T, error)
	Update(ctx context.Context, id string, input I, mode UpdateMode) (*T, bool, error)
	Delete(ctx context.Context, id string) (*T, bool, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
