package models

import (
	"time"

	"github.com/google/uuid"
)

// DateTierAssignment pins a single calendar day to a price tier. Dates are
// stored as ISO strings (YYYY-MM-DD); at most one assignment per day.
type DateTierAssignment struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Date      string     `gorm:"column:date;type:date;not null;uniqueIndex"`
	TierID    uuid.UUID  `gorm:"column:tier_id;type:uuid;not null"`
	Tier      *PriceTier `gorm:"foreignKey:TierID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
