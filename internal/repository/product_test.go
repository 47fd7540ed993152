package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/storeadmin/internal/database/testutil"
	"github.com/charlesng35/storeadmin/internal/models"
)

func seedCatalogue(t *testing.T, ctx context.Context, brands *BrandRepository, categories *CategoryRepository) (*models.Brand, *models.Category) {
	t.Helper()
	brand, err := brands.Create(ctx, BrandInput{Name: ptr("Nike")})
	require.NoError(t, err)
	category, err := categories.Create(ctx, CategoryInput{Name: ptr("Shoes"), Image: ptr("http://localhost/shoes.png")})
	require.NoError(t, err)
	return brand, category
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	spy := newSpyCache()

	brands, err := NewBrandRepository(db, spy)
	require.NoError(t, err)
	categories, err := NewCategoryRepository(db, spy, nil)
	require.NoError(t, err)
	products, err := NewProductRepository(db, spy)
	require.NoError(t, err)

	brand, category := seedCatalogue(t, ctx, brands, categories)

	_, err = products.Create(ctx, ProductInput{Name: ptr("Air Max")})
	require.ErrorIs(t, err, ErrIncompleteInput)

	price := decimal.RequireFromString("129.99")
	product, err := products.Create(ctx, ProductInput{
		CategoryID:  ptr(category.ID),
		BrandID:     ptr(brand.ID),
		Name:        ptr("Air Max"),
		IsAvailable: ptr(true),
		Price:       &price,
		Amount:      ptr(12),
		Image:       ptr("http://localhost/airmax.png"),
	})
	require.NoError(t, err)
	require.False(t, product.Discount.Valid)

	discount := decimal.RequireFromString("10.50")
	updated, found, err := products.Update(ctx, product.ID, ProductInput{Discount: &discount, Amount: ptr(11)}, UpdatePartial)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, updated.Discount.Valid)
	require.True(t, updated.Discount.Decimal.Equal(discount))
	require.Equal(t, 11, updated.Amount)
	require.True(t, updated.Price.Equal(price))

	fetched, found, err := products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Air Max", fetched.Name)
	require.True(t, fetched.Discount.Decimal.Equal(discount))

	cleared, _, err := products.Update(ctx, product.ID, ProductInput{ClearDiscount: true}, UpdatePartial)
	require.NoError(t, err)
	require.False(t, cleared.Discount.Valid)

	all, err := products.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	require.Equal(t, "Air Max", all.Items[0].Name)
	require.True(t, all.Items[0].IsAvailable)
	require.True(t, all.Items[0].Price.Equal(price))
	require.Empty(t, all.Items[0].CategoryID, "unpaginated listings carry only the summary columns")
}

func TestProductRequiresExistingReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	products, err := NewProductRepository(db, nil)
	require.NoError(t, err)

	price := decimal.NewFromInt(10)
	_, err = products.Create(ctx, ProductInput{
		CategoryID:  ptr(uuid.NewString()),
		BrandID:     ptr(uuid.NewString()),
		Name:        ptr("Orphan"),
		IsAvailable: ptr(false),
		Price:       &price,
		Amount:      ptr(1),
	})
	require.Error(t, err)
}

func TestProductFullUpdateRequiresAllFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	products, err := NewProductRepository(db, nil)
	require.NoError(t, err)

	_, _, err = products.Update(context.Background(), uuid.NewString(), ProductInput{Name: ptr("x")}, UpdateFull)
	require.ErrorIs(t, err, ErrIncompleteUpdate)
}

func TestUpdateModeString(t *testing.T) {
	require.Equal(t, "partial", UpdatePartial.String())
	require.Equal(t, "full", UpdateFull.String())
	require.Equal(t, "unknown", UpdateMode(9).String())
}
