package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/internal/pricing"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/ordercode"
	"github.com/tetshop/banhtet-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the admin order console plus public order tracking.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderListDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	TrackByCode(ctx context.Context, code string) (*OrderDTO, error)

	UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) (*OrderDTO, error)
	UpdateCustomer(ctx context.Context, orderID uuid.UUID, input UpdateCustomerInput) (*OrderDTO, error)
	UpdateItems(ctx context.Context, orderID uuid.UUID, items []ItemInput) (*OrderDTO, error)
	Delete(ctx context.Context, orderID uuid.UUID) error

	DailySummaries(ctx context.Context, from, to string) ([]DailySummaryDTO, error)
}

// UpdateCustomerInput holds optional edits to an order's customer and
// delivery fields.
type UpdateCustomerInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerEmail   *string
	DeliveryAddress *string
	DeliveryDate    *string
	Notes           *string
}

// ItemInput is one edited line item. UnitPrice stays an explicit admin input:
// line prices are snapshots, not live catalog lookups.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
}

type statusLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderStatus, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	statuses statusLoader
	products productLoader
}

// NewService constructs an order console service instance.
func NewService(repo *Repository, dbClient *db.Client, statuses statusLoader, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if statuses == nil {
		return nil, fmt.Errorf("status loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, dbClient: dbClient, statuses: statuses, products: products}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderListDTO, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	out := &OrderListDTO{
		Orders:     make([]OrderDTO, 0, len(list.Orders)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Orders {
		out.Orders = append(out.Orders, *NewOrderDTO(&list.Orders[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) TrackByCode(ctx context.Context, code string) (*OrderDTO, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ordercode.Valid(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code is malformed")
	}

	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status, err := s.statuses.FindByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order status")
	}

	order.StatusID = status.ID
	if _, err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = status
	return NewOrderDTO(order), nil
}

func (s *service) UpdateCustomer(ctx context.Context, orderID uuid.UUID, input UpdateCustomerInput) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if n := len(name); n < 2 || n > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be between 2 and 100 characters")
		}
		order.CustomerName = name
	}
	if input.CustomerPhone != nil {
		phone := strings.TrimSpace(*input.CustomerPhone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
		}
		order.CustomerPhone = phone
	}
	if input.CustomerEmail != nil {
		order.CustomerEmail = input.CustomerEmail
	}
	if input.DeliveryAddress != nil {
		address := strings.TrimSpace(*input.DeliveryAddress)
		if n := len(address); n < 10 || n > 500 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must be between 10 and 500 characters")
		}
		order.DeliveryAddress = address
	}
	if input.DeliveryDate != nil {
		if _, err := time.Parse(pricing.ISODate, *input.DeliveryDate); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date must be formatted YYYY-MM-DD")
		}
		order.DeliveryDate = *input.DeliveryDate
	}
	if input.Notes != nil {
		if len(*input.Notes) > 500 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "notes must be at most 500 characters")
		}
		order.Notes = input.Notes
	}

	if _, err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return NewOrderDTO(order), nil
}

// UpdateItems replaces the order's line items and recomputes the total so
// total_amount always equals the sum over persisted lines.
func (s *service) UpdateItems(ctx context.Context, orderID uuid.UUID, items []ItemInput) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order must keep at least one item")
	}

	rows := make([]models.OrderItem, 0, len(items))
	var total int64
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, line := range items {
		if line.Quantity < 1 || line.Quantity > 99 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be between 1 and 99")
		}
		if line.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in item list")
		}
		seen[line.ProductID] = struct{}{}

		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "item references an unknown product")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		rows = append(rows, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
		total += line.UnitPrice * int64(line.Quantity)
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceItems(ctx, order.ID, rows); err != nil {
			return err
		}
		order.TotalAmount = total
		_, err := txRepo.UpdateOrder(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing order items")
	}

	order.Items = rows
	return NewOrderDTO(order), nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return err
	}

	count, err := s.repo.CountItems(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting order items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeUsageGuard,
			fmt.Sprintf("order still has %d item(s)", count)).
			WithDetails(map[string]int64{"order_items": count})
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteOrder(ctx, orderID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func (s *service) DailySummaries(ctx context.Context, from, to string) ([]DailySummaryDTO, error) {
	if _, err := time.Parse(pricing.ISODate, from); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must be formatted YYYY-MM-DD")
	}
	if _, err := time.Parse(pricing.ISODate, to); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be formatted YYYY-MM-DD")
	}
	if from > to {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
	}

	rows, err := s.repo.DailySummaries(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating daily summaries")
	}
	out := make([]DailySummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewDailySummaryDTO(row))
	}
	return out, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}
