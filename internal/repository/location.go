package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/storeadmin/internal/models"
)

// LocationInput is the write model of a location.
type LocationInput struct {
	Area     *string
	Street   *string
	Building *string
}

func (in LocationInput) Complete() bool {
	return in.Area != nil && in.Street != nil && in.Building != nil
}

func (in LocationInput) Apply(location *models.Location) {
	if in.Area != nil {
		location.Area = strings.TrimSpace(*in.Area)
	}
	if in.Street != nil {
		location.Street = strings.TrimSpace(*in.Street)
	}
	if in.Building != nil {
		location.Building = strings.TrimSpace(*in.Building)
	}
}

// LocationRepository stores user locations. Every operation is scoped to the
// owning user; a location of another user is reported as absent. Locations
// are read straight from the database.
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *gorm.DB) (*LocationRepository, error) {
	if db == nil {
		return nil, errors.New("repository: db must not be nil")
	}
	return &LocationRepository{db: db}, nil
}

// List returns the locations of userID, newest first.
func (r *LocationRepository) List(ctx context.Context, userID string) ([]models.Location, error) {
	locations := make([]models.Location, 0)
	err := r.db.WithContext(ensureContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("locations repository: list: %w", err)
	}
	return locations, nil
}

// FindByID returns the location id of userID.
func (r *LocationRepository) FindByID(ctx context.Context, userID, id string) (*models.Location, bool, error) {
	location, found, err := takeOwned(r.db.WithContext(ensureContext(ctx)), userID, id, false)
	if err != nil {
		return nil, false, fmt.Errorf("locations repository: find %s: %w", id, err)
	}
	return location, found, nil
}

// Create stores a new location for userID.
func (r *LocationRepository) Create(ctx context.Context, userID string, input LocationInput) (*models.Location, error) {
	if !input.Complete() {
		return nil, ErrIncompleteInput
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("locations repository: user id is required")
	}

	location := &models.Location{UserID: userID}
	input.Apply(location)

	if err := r.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		return tx.Create(location).Error
	}); err != nil {
		return nil, fmt.Errorf("locations repository: create: %w", err)
	}
	return location, nil
}

// Update changes a location of userID.
func (r *LocationRepository) Update(ctx context.Context, userID, id string, input LocationInput, mode UpdateMode) (*models.Location, bool, error) {
	if mode == UpdateFull && !input.Complete() {
		return nil, false, ErrIncompleteUpdate
	}

	var updated *models.Location
	err := r.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		location, found, err := takeOwned(tx, userID, id, true)
		if err != nil || !found {
			return err
		}
		input.Apply(location)
		if err := tx.Save(location).Error; err != nil {
			return err
		}
		updated = location
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("locations repository: update %s: %w", id, err)
	}
	return updated, updated != nil, nil
}

// Delete soft deletes a location of userID.
func (r *LocationRepository) Delete(ctx context.Context, userID, id string) (*models.Location, bool, error) {
	var deleted *models.Location
	err := r.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		location, found, err := takeOwned(tx, userID, id, true)
		if err != nil || !found {
			return err
		}
		if err := tx.Delete(location).Error; err != nil {
			return err
		}
		deleted = location
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("locations repository: delete %s: %w", id, err)
	}
	return deleted, deleted != nil, nil
}

func takeOwned(db *gorm.DB, userID, id string, lock bool) (*models.Location, bool, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(userID) == "" {
		return nil, false, nil
	}
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var location models.Location
	err := db.Where("id = ? AND user_id = ?", id, userID).Take(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &location, true, nil
}
