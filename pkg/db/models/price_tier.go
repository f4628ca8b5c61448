package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceTier is a named pricing band ("normal", "peak", "tet") products can
// carry a price under. Exactly one tier should be flagged as default; the
// lowest display_order tier acts as a fallback when none is flagged.
type PriceTier struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null;uniqueIndex"`
	Color        string    `gorm:"column:color;not null"`
	Description  *string   `gorm:"column:description"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
