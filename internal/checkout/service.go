package checkout

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
	"github.com/tetshop/banhtet-backend/pkg/metrics"
	"github.com/tetshop/banhtet-backend/pkg/ordercode"
	"gorm.io/gorm"
)

const codeRetryAttempts = 5

// Service submits storefront orders.
type Service interface {
	Submit(ctx context.Context, input SubmitOrderInput) (*SubmitResult, error)
}

// SubmitItemInput is one requested order line. UnitPrice is the price the
// client displayed; the server recomputes it and rejects mismatches.
type SubmitItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
}

// SubmitOrderInput is the validated checkout payload.
type SubmitOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	DeliveryAddress string
	DeliveryDate    string
	Notes           *string
	Items           []SubmitItemInput
	TotalAmount     int64
}

// SubmitResult carries the identifiers the customer needs for tracking.
type SubmitResult struct {
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type tierResolver interface {
	TierForDate(ctx context.Context, date string) (*models.PriceTier, error)
}

type statusPicker interface {
	// DefaultStatus returns the initial status for new orders: the status
	// literally named "pending", else the lowest display_order one.
	DefaultStatus(ctx context.Context) (*models.OrderStatus, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productLoader
	resolver tierResolver
	statuses statusPicker
	orders   *metrics.OrderMetrics
	now      func() time.Time
}

// NewService constructs a checkout service instance. The metrics argument may
// be nil when the caller runs without a Prometheus registry.
func NewService(repo *Repository, dbClient *db.Client, products productLoader, resolver tierResolver, statuses statusPicker, orders *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("tier resolver required")
	}
	if statuses == nil {
		return nil, fmt.Errorf("status picker required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		products: products,
		resolver: resolver,
		statuses: statuses,
		orders:   orders,
		now:      time.Now,
	}, nil
}

// Submit validates the payload, recomputes every line's unit price from the
// authoritative catalog under the delivery date's tier, and persists the
// order plus its items in one transaction.
func (s *service) Submit(ctx context.Context, input SubmitOrderInput) (*SubmitResult, error) {
	if err := validateInput(input); err != nil {
		s.orders.IncSubmitted("rejected")
		return nil, err
	}

	tier, err := s.resolver.TierForDate(ctx, input.DeliveryDate)
	if err != nil {
		s.orders.IncSubmitted("rejected")
		return nil, err
	}
	var tierID *uuid.UUID
	if tier != nil {
		id := tier.ID
		tierID = &id
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	var total int64
	for _, line := range input.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.orders.IncSubmitted("rejected")
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "order references an unknown product")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if !product.IsAvailable {
			s.orders.IncSubmitted("rejected")
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %q is no longer available", product.Name))
		}

		unitPrice := pricing.PriceFor(product, tierID)
		if line.UnitPrice != unitPrice {
			s.orders.IncSubmitted("rejected")
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("price for %q has changed, please review your cart", product.Name)).
				WithDetails(map[string]int64{"submitted": line.UnitPrice, "current": unitPrice})
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
		})
		total += unitPrice * int64(line.Quantity)
	}

	if input.TotalAmount != total {
		s.orders.IncSubmitted("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total does not match current prices").
			WithDetails(map[string]int64{"submitted": input.TotalAmount, "current": total})
	}

	status, err := s.statuses.DefaultStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "no order status configured")
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerEmail:   input.CustomerEmail,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		DeliveryDate:    input.DeliveryDate,
		Notes:           input.Notes,
		StatusID:        status.ID,
		TotalAmount:     total,
		Items:           items,
	}

	if err := s.persistWithFreshCode(ctx, order); err != nil {
		s.orders.IncSubmitted("failed")
		return nil, err
	}

	s.orders.IncSubmitted("accepted")
	s.orders.AddRevenue(total)
	return &SubmitResult{OrderID: order.ID, OrderCode: order.OrderCode}, nil
}

// persistWithFreshCode inserts the order, regenerating the order code on the
// rare code collision.
func (s *service) persistWithFreshCode(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		code, err := ordercode.Generate(s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order code")
		}
		order.OrderCode = code
		order.ID = uuid.Nil

		err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			_, err := s.repo.WithTx(tx).CreateOrderWithItems(ctx, order)
			return err
		})
		if err == nil {
			return nil
		}
		if db.IsUniqueViolation(err, "orders_order_code_key") {
			continue
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting order")
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique order code")
}

func validateInput(input SubmitOrderInput) error {
	fields := map[string]string{}

	if n := len(strings.TrimSpace(input.CustomerName)); n < 2 || n > 100 {
		fields["customer_name"] = "name must be between 2 and 100 characters"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		fields["customer_phone"] = "phone is required"
	}
	if input.CustomerEmail != nil && *input.CustomerEmail != "" && !strings.Contains(*input.CustomerEmail, "@") {
		fields["customer_email"] = "email is invalid"
	}
	if n := len(strings.TrimSpace(input.DeliveryAddress)); n < 10 || n > 500 {
		fields["delivery_address"] = "address must be between 10 and 500 characters"
	}
	if _, err := time.Parse(pricing.ISODate, input.DeliveryDate); err != nil {
		fields["delivery_date"] = "delivery date must be formatted YYYY-MM-DD"
	}
	if input.Notes != nil && len(*input.Notes) > 500 {
		fields["notes"] = "notes must be at most 500 characters"
	}
	if len(input.Items) == 0 {
		fields["items"] = "cart is empty"
	}
	for _, line := range input.Items {
		if line.Quantity < 1 || line.Quantity > 99 {
			fields["items"] = "item quantity must be between 1 and 99"
			break
		}
	}

	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order payload is invalid").WithDetails(fields)
	}
	return nil
}
