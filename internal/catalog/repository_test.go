package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, slug string, order int, available bool, prices ...int64) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:           uuid.New(),
		Slug:         slug,
		Name:         slug,
		IsAvailable:  available,
		DisplayOrder: order,
	}
	for _, price := range prices {
		product.TierPrices = append(product.TierPrices, models.ProductTierPrice{
			ID:     uuid.New(),
			TierID: uuid.New(),
			Price:  price,
		})
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListAvailable(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "banh-tet-la-cam", 1, true, 90000)
	seedProduct(t, db, "banh-tet-dau-xanh", 0, true, 80000, 100000)
	seedProduct(t, db, "banh-tet-retired", 2, false, 70000)

	products, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "banh-tet-dau-xanh", products[0].Slug)
	assert.Len(t, products[0].TierPrices, 2)
	assert.Equal(t, "banh-tet-la-cam", products[1].Slug)
}

func TestRepositoryFindBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seeded := seedProduct(t, db, "banh-tet-dau-xanh", 0, true, 80000)

	got, err := repo.FindBySlug(context.Background(), "banh-tet-dau-xanh")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	require.Len(t, got.TierPrices, 1)
	assert.Equal(t, int64(80000), got.TierPrices[0].Price)

	_, err = repo.FindBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryReplaceTierPrices(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "banh-tet-dau-xanh", 0, true, 80000)
	tierA := uuid.New()
	tierB := uuid.New()

	err := repo.ReplaceTierPrices(context.Background(), product.ID, []models.ProductTierPrice{
		{ProductID: product.ID, TierID: tierA, Price: 90000},
		{ProductID: product.ID, TierID: tierB, Price: 110000},
	})
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, got.TierPrices, 2)

	// empty set clears all prices
	require.NoError(t, repo.ReplaceTierPrices(context.Background(), product.ID, nil))
	got, err = repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TierPrices)
}

func TestRepositoryDeleteProduct_removesPrices(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "banh-tet-dau-xanh", 0, true, 80000, 100000)
	require.NoError(t, repo.DeleteProduct(context.Background(), product.ID))

	var count int64
	require.NoError(t, db.Model(&models.ProductTierPrice{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepositoryCountOrderReferences(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "banh-tet-dau-xanh", 0, true, 80000)
	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    2,
		UnitPrice:   80000,
	}
	require.NoError(t, db.Create(item).Error)

	count, err := repo.CountOrderReferences(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
