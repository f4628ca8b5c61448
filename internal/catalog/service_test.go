package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
)

type stubTierResolver struct {
	tier *models.PriceTier
	err  error
}

func (s *stubTierResolver) TierForDate(ctx context.Context, date string) (*models.PriceTier, error) {
	return s.tier, s.err
}

type stubTierLister struct {
	tiers []models.PriceTier
}

func (s *stubTierLister) ListTiers(ctx context.Context) ([]models.PriceTier, error) {
	return s.tiers, nil
}

func newCatalogService(t *testing.T, resolver *stubTierResolver, lister *stubTierLister) Service {
	t.Helper()

	conn := setupCatalogTestDB(t)
	if resolver == nil {
		resolver = &stubTierResolver{}
	}
	if lister == nil {
		lister = &stubTierLister{}
	}
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), resolver, lister)
	require.NoError(t, err)
	return svc
}

func TestServiceCreateProduct_validatesSlug(t *testing.T) {
	svc := newCatalogService(t, nil, nil)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug: "Bánh Tét!",
		Name: "Bánh Tét",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateProduct_rejectsUnknownTier(t *testing.T) {
	known := uuid.New()
	lister := &stubTierLister{tiers: []models.PriceTier{{ID: known, Name: "normal"}}}
	svc := newCatalogService(t, nil, lister)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:       "banh-tet-dau-xanh",
		Name:       "Bánh Tét Đậu Xanh",
		TierPrices: []TierPriceInput{{TierID: uuid.New(), Price: 80000}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:        "banh-tet-dau-xanh",
		Name:        "Bánh Tét Đậu Xanh",
		IsAvailable: true,
		TierPrices:  []TierPriceInput{{TierID: known, Price: 80000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(80000), dto.MinPrice)
}

func TestServiceCreateProduct_rejectsNonPositivePrice(t *testing.T) {
	known := uuid.New()
	lister := &stubTierLister{tiers: []models.PriceTier{{ID: known, Name: "normal"}}}
	svc := newCatalogService(t, nil, lister)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:       "banh-tet-dau-xanh",
		Name:       "Bánh Tét Đậu Xanh",
		TierPrices: []TierPriceInput{{TierID: known, Price: 0}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceListStorefront_resolvesPriceForDate(t *testing.T) {
	peak := uuid.New()
	normal := uuid.New()
	lister := &stubTierLister{tiers: []models.PriceTier{
		{ID: normal, Name: "normal"},
		{ID: peak, Name: "peak"},
	}}
	resolver := &stubTierResolver{tier: &models.PriceTier{ID: peak, Name: "peak"}}
	svc := newCatalogService(t, resolver, lister)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:        "banh-tet-dau-xanh",
		Name:        "Bánh Tét Đậu Xanh",
		IsAvailable: true,
		TierPrices: []TierPriceInput{
			{TierID: normal, Price: 80000},
			{TierID: peak, Price: 100000},
		},
	})
	require.NoError(t, err)

	date := "2026-02-14"
	listed, err := svc.ListStorefront(context.Background(), &date)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(100000), listed[0].ResolvedPrice)
	assert.Equal(t, int64(80000), listed[0].MinPrice)

	// without a date the minimum price is shown
	listed, err = svc.ListStorefront(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(80000), listed[0].ResolvedPrice)
}

func TestServiceGetBySlug_notFound(t *testing.T) {
	svc := newCatalogService(t, nil, nil)

	_, err := svc.GetBySlug(context.Background(), "missing", nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateProduct_partial(t *testing.T) {
	svc := newCatalogService(t, nil, nil)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:        "banh-tet-dau-xanh",
		Name:        "Bánh Tét Đậu Xanh",
		IsAvailable: true,
	})
	require.NoError(t, err)

	available := false
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		IsAvailable: &available,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "banh-tet-dau-xanh", updated.Slug)
}

func TestServiceDeleteProduct_usageGuard(t *testing.T) {
	svc := newCatalogService(t, nil, nil)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug: "banh-tet-dau-xanh",
		Name: "Bánh Tét Đậu Xanh",
	})
	require.NoError(t, err)

	// simulate an order snapshotting the product
	svcImpl := svc.(*service)
	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		ProductID:   created.ID,
		ProductName: created.Name,
		Quantity:    1,
		UnitPrice:   80000,
	}
	require.NoError(t, svcImpl.repo.db.Create(item).Error)

	err = svc.DeleteProduct(context.Background(), created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUsageGuard, typed.Code())
}

func TestServiceSetTierPrices_replaces(t *testing.T) {
	normal := uuid.New()
	peak := uuid.New()
	lister := &stubTierLister{tiers: []models.PriceTier{
		{ID: normal, Name: "normal"},
		{ID: peak, Name: "peak"},
	}}
	svc := newCatalogService(t, nil, lister)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:       "banh-tet-dau-xanh",
		Name:       "Bánh Tét Đậu Xanh",
		TierPrices: []TierPriceInput{{TierID: normal, Price: 80000}},
	})
	require.NoError(t, err)

	updated, err := svc.SetTierPrices(context.Background(), created.ID, []TierPriceInput{
		{TierID: normal, Price: 85000},
		{TierID: peak, Price: 105000},
	})
	require.NoError(t, err)
	require.Len(t, updated.Prices, 2)
	assert.Equal(t, int64(85000), updated.MinPrice)
}
