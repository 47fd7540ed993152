package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/models"
)

// BrandKeys names the cache keys of brands.
var BrandKeys = cache.NewKeyspace("brands", "brand")

// BrandInput is the write model of a brand.
type BrandInput struct {
	Name *string
}

func (in BrandInput) Complete() bool {
	return in.Name != nil
}

func (in BrandInput) Apply(brand *models.Brand) {
	if in.Name != nil {
		brand.Name = strings.TrimSpace(*in.Name)
	}
}

// BrandRepository is the cached repository of brands.
type BrandRepository = Cached[models.Brand, BrandInput]

var _ Repository[models.Brand, BrandInput] = (*BrandRepository)(nil)

// NewBrandRepository returns the brand repository. Unpaginated listings carry id and name.
func NewBrandRepository(db *gorm.DB, c cache.Cache, opts ...Option) (*BrandRepository, error) {
	return NewCached[models.Brand, BrandInput](db, c, BrandKeys, []string{"id", "name"}, opts...)
}
