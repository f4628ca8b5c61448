package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tetshop/banhtet-backend/internal/statuses"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
)

// OrderItemDTO is one persisted line item.
type OrderItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
}

// OrderDTO represents an order in admin and tracking responses.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderCode       string              `json:"order_code"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerEmail   *string             `json:"customer_email,omitempty"`
	DeliveryAddress string              `json:"delivery_address"`
	DeliveryDate    string              `json:"delivery_date"`
	Notes           *string             `json:"notes,omitempty"`
	Status          *statuses.StatusDTO `json:"status,omitempty"`
	TotalAmount     int64               `json:"total_amount"`
	Items           []OrderItemDTO      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListDTO is one page of the admin listing.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// DailySummaryDTO aggregates one delivery day for the admin calendar view.
type DailySummaryDTO struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	ItemCount  int64           `json:"item_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// NewOrderDTO builds a DTO from the persisted order.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              order.ID,
		OrderCode:       order.OrderCode,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerEmail:   order.CustomerEmail,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryDate:    order.DeliveryDate,
		Notes:           order.Notes,
		Status:          statuses.NewStatusDTO(order.Status),
		TotalAmount:     order.TotalAmount,
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return dto
}

// NewDailySummaryDTO converts an aggregate row, lifting revenue into a
// decimal for reporting consumers.
func NewDailySummaryDTO(row DailySummary) DailySummaryDTO {
	return DailySummaryDTO{
		Date:       row.Date,
		OrderCount: row.OrderCount,
		ItemCount:  row.ItemCount,
		Revenue:    decimal.NewFromInt(row.Revenue),
	}
}
