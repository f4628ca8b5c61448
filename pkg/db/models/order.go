package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a placed customer order. TotalAmount always equals the sum of
// unit_price * quantity over its items; unit prices are snapshots taken at
// submission time and never change with later catalog edits.
type Order struct {
	ID              uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode       string       `gorm:"column:order_code;not null;uniqueIndex"`
	CustomerName    string       `gorm:"column:customer_name;not null"`
	CustomerPhone   string       `gorm:"column:customer_phone;not null"`
	CustomerEmail   *string      `gorm:"column:customer_email"`
	DeliveryAddress string       `gorm:"column:delivery_address;not null"`
	DeliveryDate    string       `gorm:"column:delivery_date;type:date;not null"`
	Notes           *string      `gorm:"column:notes"`
	StatusID        uuid.UUID    `gorm:"column:status_id;type:uuid;not null"`
	Status          *OrderStatus `gorm:"foreignKey:StatusID"`
	TotalAmount     int64        `gorm:"column:total_amount;not null"`
	Items           []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
