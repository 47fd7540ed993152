package repository

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/models"
)

// ProductKeys names the cache keys of products.
var ProductKeys = cache.NewKeyspace("products", "product")

// ProductInput is the write model of a product. Discount and Image are
// optional columns; ClearDiscount removes a discount.
type ProductInput struct {
	CategoryID    *string
	BrandID       *string
	Name          *string
	IsAvailable   *bool
	Price         *decimal.Decimal
	Amount        *int
	Discount      *decimal.Decimal
	ClearDiscount bool
	Image         *string
}

func (in ProductInput) Complete() bool {
	return in.CategoryID != nil &&
		in.BrandID != nil &&
		in.Name != nil &&
		in.IsAvailable != nil &&
		in.Price != nil &&
		in.Amount != nil
}

func (in ProductInput) Apply(product *models.Product) {
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		product.BrandID = *in.BrandID
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Amount != nil {
		product.Amount = *in.Amount
	}
	switch {
	case in.ClearDiscount:
		product.Discount = decimal.NullDecimal{}
	case in.Discount != nil:
		product.Discount = decimal.NewNullDecimal(*in.Discount)
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
}

// ProductRepository is the cached repository of products.
type ProductRepository = Cached[models.Product, ProductInput]

var _ Repository[models.Product, ProductInput] = (*ProductRepository)(nil)

// NewProductRepository returns the product repository.
func NewProductRepository(db *gorm.DB, c cache.Cache, opts ...Option) (*ProductRepository, error) {
	return NewCached[models.Product, ProductInput](db, c, ProductKeys,
		[]string{"id", "name", "price", "is_available", "image"}, opts...)
}
