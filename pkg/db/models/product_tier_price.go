package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductTierPrice is a product's price under one tier, in đồng (integer,
// smallest currency unit). Coverage of every tier is not required.
type ProductTierPrice struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_tier"`
	TierID    uuid.UUID `gorm:"column:tier_id;type:uuid;not null;uniqueIndex:idx_product_tier"`
	Price     int64     `gorm:"column:price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
