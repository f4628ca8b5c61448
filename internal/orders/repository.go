package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	"github.com/tetshop/banhtet-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Filters narrows the admin order listing.
type Filters struct {
	StatusID     *uuid.UUID
	Query        string
	DeliveryDate *string
}

// OrderList is one page of the admin listing.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

// DailySummary aggregates one delivery day.
type DailySummary struct {
	Date       string
	OrderCount int64
	ItemCount  int64
	Revenue    int64
}

const dailySummaryQuery = `
SELECT o.delivery_date AS date,
       COUNT(*) AS order_count,
       COALESCE(SUM(o.total_amount), 0) AS revenue,
       COALESCE((
         SELECT SUM(oi.quantity)
         FROM order_items oi
         JOIN orders o2 ON o2.id = oi.order_id
         WHERE o2.delivery_date = o.delivery_date
       ), 0) AS item_count
FROM orders o
WHERE o.delivery_date >= ? AND o.delivery_date <= ?
GROUP BY o.delivery_date
ORDER BY o.delivery_date ASC
`

// Repository exposes admin order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListOrders returns one cursor page of orders, newest first.
func (r *Repository) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Status").
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	if filters.StatusID != nil {
		query = query.Where("status_id = ?", *filters.StatusID)
	}
	if filters.DeliveryDate != nil && *filters.DeliveryDate != "" {
		query = query.Where("delivery_date = ?", *filters.DeliveryDate)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(order_code) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?",
			like, like, "%"+q+"%",
		)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	page, hasMore := pagination.TrimPage(orders, params.Limit)
	list := &OrderList{Orders: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

// FindByID loads an order with status and items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCode loads an order by its customer-facing code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Items").
		First(&order, "order_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder saves the order row without touching items.
func (r *Repository) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).
		Omit("Items", "Status").
		Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceItems swaps the order's full line item set.
func (r *Repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].OrderID = orderID
	}
	return tx.Create(&items).Error
}

// CountItems counts the order's line items.
func (r *Repository) CountItems(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOrder removes an order and any of its items.
func (r *Repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Order{}).Error
}

// DailySummaries aggregates orders per delivery day over [from, to].
func (r *Repository) DailySummaries(ctx context.Context, from, to string) ([]DailySummary, error) {
	var rows []DailySummary
	if err := r.db.WithContext(ctx).
		Raw(dailySummaryQuery, from, to).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
