package pricing

import (
	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
)

// ResolvePrice returns the product's price under the given tier. The second
// return value is false when the product carries no entry for that tier;
// callers fall back to MinPrice.
func ResolvePrice(product *models.Product, tierID uuid.UUID) (int64, bool) {
	if product == nil || tierID == uuid.Nil {
		return 0, false
	}
	for _, tp := range product.TierPrices {
		if tp.TierID == tierID {
			return tp.Price, true
		}
	}
	return 0, false
}

// MinPrice returns the minimum across the product's tier prices, or 0 when
// the product has no prices.
func MinPrice(product *models.Product) int64 {
	if product == nil || len(product.TierPrices) == 0 {
		return 0
	}
	min := product.TierPrices[0].Price
	for _, tp := range product.TierPrices[1:] {
		if tp.Price < min {
			min = tp.Price
		}
	}
	return min
}

// PriceFor resolves the display/charge price for a product under an optional
// tier. Resolution is total: an absent tier or a tier the product does not
// price falls back to the product's minimum price.
func PriceFor(product *models.Product, tierID *uuid.UUID) int64 {
	if tierID != nil {
		if price, ok := ResolvePrice(product, *tierID); ok {
			return price
		}
	}
	return MinPrice(product)
}

// DefaultTier picks the registry's default tier: the one flagged is_default,
// otherwise the lowest display_order (created_at as tie-break is assumed to
// be reflected in the slice order). Returns nil for an empty registry.
func DefaultTier(tiers []models.PriceTier) *models.PriceTier {
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		if tiers[i].IsDefault {
			return &tiers[i]
		}
	}
	best := &tiers[0]
	for i := range tiers[1:] {
		if tiers[i+1].DisplayOrder < best.DisplayOrder {
			best = &tiers[i+1]
		}
	}
	return best
}
