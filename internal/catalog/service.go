package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"gorm.io/gorm"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Service exposes catalog browsing and admin product management.
type Service interface {
	// ListStorefront returns available products with prices resolved for the
	// optional delivery date.
	ListStorefront(ctx context.Context, date *string) ([]ProductDTO, error)
	GetBySlug(ctx context.Context, slug string, date *string) (*ProductDTO, error)

	ListAll(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SetTierPrices(ctx context.Context, productID uuid.UUID, prices []TierPriceInput) (*ProductDTO, error)
}

// TierPriceInput sets a product's price under one tier.
type TierPriceInput struct {
	TierID uuid.UUID
	Price  int64
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Slug          string
	Name          string
	Description   *string
	ImageURL      *string
	GalleryImages []string
	WeightKg      decimal.Decimal
	IsAvailable   bool
	DisplayOrder  int
	TierPrices    []TierPriceInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Slug          *string
	Name          *string
	Description   *string
	ImageURL      *string
	GalleryImages *[]string
	WeightKg      *decimal.Decimal
	IsAvailable   *bool
	DisplayOrder  *int
}

type tierResolver interface {
	TierForDate(ctx context.Context, date string) (*models.PriceTier, error)
}

type tierLister interface {
	ListTiers(ctx context.Context) ([]models.PriceTier, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	resolver tierResolver
	tiers    tierLister
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, resolver tierResolver, tiers tierLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("tier resolver required")
	}
	if tiers == nil {
		return nil, fmt.Errorf("tier lister required")
	}
	return &service{repo: repo, dbClient: dbClient, resolver: resolver, tiers: tiers}, nil
}

func (s *service) tierIDForDate(ctx context.Context, date *string) (*uuid.UUID, error) {
	if date == nil || *date == "" {
		return nil, nil
	}
	tier, err := s.resolver.TierForDate(ctx, *date)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, nil
	}
	id := tier.ID
	return &id, nil
}

func (s *service) ListStorefront(ctx context.Context, date *string) ([]ProductDTO, error) {
	tierID, err := s.tierIDForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i], tierID))
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string, date *string) (*ProductDTO, error) {
	tierID, err := s.tierIDForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return NewProductDTO(product, tierID), nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i], nil))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	slug := strings.TrimSpace(input.Slug)
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and hyphens")
	}
	if err := s.validateTierPrices(ctx, input.TierPrices); err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:          slug,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		GalleryImages: append([]string{}, input.GalleryImages...),
		WeightKg:      input.WeightKg,
		IsAvailable:   input.IsAvailable,
		DisplayOrder:  input.DisplayOrder,
	}
	for _, tp := range input.TierPrices {
		product.TierPrices = append(product.TierPrices, models.ProductTierPrice{
			TierID: tp.TierID,
			Price:  tp.Price,
		})
	}

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "products_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return NewProductDTO(product, nil), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if !slugRe.MatchString(slug) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and hyphens")
		}
		product.Slug = slug
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.GalleryImages != nil {
		product.GalleryImages = append([]string{}, (*input.GalleryImages)...)
	}
	if input.WeightKg != nil {
		product.WeightKg = *input.WeightKg
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.DisplayOrder != nil {
		product.DisplayOrder = *input.DisplayOrder
	}

	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "products_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return NewProductDTO(product, nil), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	refs, err := s.repo.CountOrderReferences(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting product references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeUsageGuard,
			fmt.Sprintf("product is still referenced by %d order item(s)", refs)).
			WithDetails(map[string]int64{"order_items": refs})
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteProduct(ctx, productID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) SetTierPrices(ctx context.Context, productID uuid.UUID, prices []TierPriceInput) (*ProductDTO, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if err := s.validateTierPrices(ctx, prices); err != nil {
		return nil, err
	}

	rows := make([]models.ProductTierPrice, 0, len(prices))
	for _, tp := range prices {
		rows = append(rows, models.ProductTierPrice{
			ProductID: productID,
			TierID:    tp.TierID,
			Price:     tp.Price,
		})
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceTierPrices(ctx, productID, rows)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing tier prices")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading product")
	}
	return NewProductDTO(product, nil), nil
}

func (s *service) validateTierPrices(ctx context.Context, prices []TierPriceInput) error {
	if len(prices) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(prices))
	for _, tp := range prices {
		if tp.Price <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier price must be a positive amount")
		}
		if _, dup := seen[tp.TierID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier in price list")
		}
		seen[tp.TierID] = struct{}{}
	}

	tiers, err := s.tiers.ListTiers(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing price tiers")
	}
	known := make(map[uuid.UUID]struct{}, len(tiers))
	for _, tier := range tiers {
		known[tier.ID] = struct{}{}
	}
	for _, tp := range prices {
		if _, ok := known[tp.TierID]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "price references an unknown tier")
		}
	}
	return nil
}
