package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a storefront listing. Prices live in ProductTierPrice rows;
// a product with no prices displays a min price of zero.
type Product struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string             `gorm:"column:slug;not null;uniqueIndex"`
	Name          string             `gorm:"column:name;not null"`
	Description   *string            `gorm:"column:description"`
	ImageURL      *string            `gorm:"column:image_url"`
	GalleryImages pq.StringArray     `gorm:"column:gallery_images;type:text[];not null;default:ARRAY[]::text[]"`
	WeightKg      decimal.Decimal    `gorm:"column:weight_kg;type:numeric(6,3);not null;default:0"`
	IsAvailable   bool               `gorm:"column:is_available;not null;default:true"`
	DisplayOrder  int                `gorm:"column:display_order;not null;default:0"`
	TierPrices    []ProductTierPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
