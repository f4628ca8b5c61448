package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tetshop/banhtet-backend/internal/pricing"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
)

// ProductDTO represents a catalog product returned to clients. ResolvedPrice
// carries the price under the request's delivery-date tier (or the minimum
// price when no tier applies).
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	GalleryImages []string        `json:"gallery_images"`
	WeightKg      decimal.Decimal `json:"weight_kg"`
	IsAvailable   bool            `json:"is_available"`
	DisplayOrder  int             `json:"display_order"`
	Prices        []TierPriceDTO  `json:"prices"`
	MinPrice      int64           `json:"min_price"`
	ResolvedPrice int64           `json:"resolved_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TierPriceDTO is one (tier, price) pair on a product.
type TierPriceDTO struct {
	TierID uuid.UUID `json:"tier_id"`
	Price  int64     `json:"price"`
}

// NewProductDTO builds a DTO from the persisted model, resolving the display
// price against the given tier (nil means minimum price).
func NewProductDTO(product *models.Product, tierID *uuid.UUID) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:            product.ID,
		Slug:          product.Slug,
		Name:          product.Name,
		Description:   product.Description,
		ImageURL:      product.ImageURL,
		GalleryImages: append([]string{}, product.GalleryImages...),
		WeightKg:      product.WeightKg,
		IsAvailable:   product.IsAvailable,
		DisplayOrder:  product.DisplayOrder,
		Prices:        make([]TierPriceDTO, 0, len(product.TierPrices)),
		MinPrice:      pricing.MinPrice(product),
		ResolvedPrice: pricing.PriceFor(product, tierID),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	for _, tp := range product.TierPrices {
		dto.Prices = append(dto.Prices, TierPriceDTO{TierID: tp.TierID, Price: tp.Price})
	}
	return dto
}
