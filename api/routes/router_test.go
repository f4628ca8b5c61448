package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tetshop/banhtet-backend/internal/catalog"
	"github.com/tetshop/banhtet-backend/pkg/config"
)

type stubCatalogService struct{}

func (s *stubCatalogService) ListStorefront(ctx context.Context, date *string) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (s *stubCatalogService) GetBySlug(ctx context.Context, slug string, date *string) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{Slug: slug}, nil
}

func (s *stubCatalogService) ListAll(ctx context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (s *stubCatalogService) SetTierPrices(ctx context.Context, productID uuid.UUID, prices []catalog.TierPriceInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "banhtet-test"
	cfg.JWT.CookieName = "banhtet_admin_session"

	return NewRouter(Deps{
		Config:         cfg,
		CatalogService: &stubCatalogService{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-BanhTet-Env"))
}

func TestRouterStorefrontIsPublic(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	router := testRouter()

	for _, path := range []string{
		"/api/admin/orders",
		"/api/admin/products",
		"/api/admin/tiers",
		"/api/admin/statuses",
	} {
		req := httptest.NewRequest(http.MethodGet, path+"/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}
