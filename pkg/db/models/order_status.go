package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is an admin-configured order state ("pending", "confirmed",
// "delivered", ...). New orders start on the status literally named
// "pending", or the lowest display_order status when none is.
type OrderStatus struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null;uniqueIndex"`
	Color        string    `gorm:"column:color;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
