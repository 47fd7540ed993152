package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/logger"
)

// CategoryKeys names the cache keys of categories.
var CategoryKeys = cache.NewKeyspace("categories", "category")

// CategoryInput is the write model of a category. Image is the URL of an
// already uploaded file.
type CategoryInput struct {
	Name  *string
	Image *string
}

func (in CategoryInput) Complete() bool {
	return in.Name != nil && in.Image != nil
}

func (in CategoryInput) Apply(category *models.Category) {
	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
	}
	if in.Image != nil {
		category.Image = *in.Image
	}
}

// ImageDeleter removes a stored image by URL.
type ImageDeleter interface {
	Delete(ctx context.Context, url string) error
}

// CategoryRepository is the cached repository of categories.
type CategoryRepository = Cached[models.Category, CategoryInput]

var _ Repository[models.Category, CategoryInput] = (*CategoryRepository)(nil)

// NewCategoryRepository returns the category repository. After a delete is
// committed the category image is removed through images; a failure there is
// logged and the delete stands.
func NewCategoryRepository(db *gorm.DB, c cache.Cache, images ImageDeleter, opts ...Option) (*CategoryRepository, error) {
	repo, err := NewCached[models.Category, CategoryInput](db, c, CategoryKeys, []string{"id", "name", "image"}, opts...)
	if err != nil {
		return nil, err
	}
	if images != nil {
		log := logger.WithModule("repository")
		repo.afterDelete = func(ctx context.Context, deleted *models.Category) {
			if deleted.Image == "" {
				return
			}
			if err := images.Delete(ctx, deleted.Image); err != nil {
				log.Warn("failed to delete category image",
					zap.String("category_id", deleted.ID),
					zap.String("image", deleted.Image),
					zap.Error(err),
				)
			}
		}
	}
	return repo, nil
}
