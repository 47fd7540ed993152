package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// Parents come first so foreign keys resolve on every driver.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PersonalAccessToken{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.Location{},
		&models.CacheEntry{},
	)
}
