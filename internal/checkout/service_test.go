package checkout

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetshop/banhtet-backend/internal/cart"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var orderCodeRe = regexp.MustCompile(`^BT-\d{6}-[A-Z0-9]{4}$`)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_code TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT,
  delivery_address TEXT NOT NULL,
  delivery_date TEXT NOT NULL,
  notes TEXT,
  status_id TEXT NOT NULL,
  total_amount INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(orders).Error)
	require.NoError(t, conn.Exec(orderItems).Error)
	return conn
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type stubResolver struct {
	tier *models.PriceTier
}

func (s *stubResolver) TierForDate(ctx context.Context, date string) (*models.PriceTier, error) {
	return s.tier, nil
}

type stubStatuses struct {
	status *models.OrderStatus
	err    error
}

func (s *stubStatuses) DefaultStatus(ctx context.Context) (*models.OrderStatus, error) {
	return s.status, s.err
}

type checkoutFixture struct {
	svc      Service
	conn     *gorm.DB
	normal   *models.PriceTier
	peak     *models.PriceTier
	dauXanh  *models.Product
	statusID uuid.UUID
}

// newCheckoutFixture seeds "Bánh Tét Đậu Xanh" priced normal=80000,
// peak=100000, tet=120000 with the peak tier governing delivery dates.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	conn := setupCheckoutTestDB(t)

	normal := &models.PriceTier{ID: uuid.New(), Name: "normal", IsDefault: true}
	peak := &models.PriceTier{ID: uuid.New(), Name: "peak", DisplayOrder: 1}
	tet := &models.PriceTier{ID: uuid.New(), Name: "tet", DisplayOrder: 2}

	dauXanh := &models.Product{
		ID:          uuid.New(),
		Slug:        "banh-tet-dau-xanh",
		Name:        "Bánh Tét Đậu Xanh",
		IsAvailable: true,
		TierPrices: []models.ProductTierPrice{
			{TierID: normal.ID, Price: 80000},
			{TierID: peak.ID, Price: 100000},
			{TierID: tet.ID, Price: 120000},
		},
	}

	statusID := uuid.New()
	svc, err := NewService(
		NewRepository(conn),
		db.NewWithConn(conn),
		&stubProducts{byID: map[uuid.UUID]*models.Product{dauXanh.ID: dauXanh}},
		&stubResolver{tier: peak},
		&stubStatuses{status: &models.OrderStatus{ID: statusID, Name: "pending"}},
		nil,
	)
	require.NoError(t, err)

	return &checkoutFixture{
		svc:      svc,
		conn:     conn,
		normal:   normal,
		peak:     peak,
		dauXanh:  dauXanh,
		statusID: statusID,
	}
}

func validInput(f *checkoutFixture) SubmitOrderInput {
	return SubmitOrderInput{
		CustomerName:    "Nguyễn Văn A",
		CustomerPhone:   "0901234567",
		DeliveryAddress: "12 Lê Lợi, Quận 1, TP.HCM",
		DeliveryDate:    "2026-02-14",
		Items: []SubmitItemInput{
			{ProductID: f.dauXanh.ID, Quantity: 2, UnitPrice: 100000},
		},
		TotalAmount: 200000,
	}
}

func TestSubmit_endToEnd(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	// a cart mirroring the submission clears after success
	visitorCart := cart.New()
	visitorCart.AddItem(cart.Item{ProductID: f.dauXanh.ID, Name: f.dauXanh.Name, UnitPrice: 100000}, 2)

	result, err := f.svc.Submit(ctx, validInput(f))
	require.NoError(t, err)
	assert.Regexp(t, orderCodeRe, result.OrderCode)
	assert.NotEqual(t, uuid.Nil, result.OrderID)

	visitorCart.Clear()
	assert.True(t, visitorCart.IsEmpty())

	var order models.Order
	require.NoError(t, f.conn.Preload("Items").First(&order, "id = ?", result.OrderID).Error)
	assert.Equal(t, int64(200000), order.TotalAmount)
	assert.Equal(t, f.statusID, order.StatusID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(100000), order.Items[0].UnitPrice)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Bánh Tét Đậu Xanh", order.Items[0].ProductName)

	// total invariant over persisted rows
	var sum int64
	for _, item := range order.Items {
		sum += item.UnitPrice * int64(item.Quantity)
	}
	assert.Equal(t, order.TotalAmount, sum)
}

func TestSubmit_rejectsStalePrice(t *testing.T) {
	f := newCheckoutFixture(t)

	input := validInput(f)
	input.Items[0].UnitPrice = 80000 // normal price, but the date maps to peak
	input.TotalAmount = 160000

	_, err := f.svc.Submit(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "price")
}

func TestSubmit_rejectsWrongTotal(t *testing.T) {
	f := newCheckoutFixture(t)

	input := validInput(f)
	input.TotalAmount = 150000

	_, err := f.svc.Submit(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSubmit_validationFailures(t *testing.T) {
	f := newCheckoutFixture(t)

	cases := []struct {
		name   string
		mutate func(*SubmitOrderInput)
		field  string
	}{
		{"emptyCart", func(in *SubmitOrderInput) { in.Items = nil }, "items"},
		{"shortName", func(in *SubmitOrderInput) { in.CustomerName = "A" }, "customer_name"},
		{"missingPhone", func(in *SubmitOrderInput) { in.CustomerPhone = "  " }, "customer_phone"},
		{"shortAddress", func(in *SubmitOrderInput) { in.DeliveryAddress = "ngắn" }, "delivery_address"},
		{"badDate", func(in *SubmitOrderInput) { in.DeliveryDate = "14/02/2026" }, "delivery_date"},
		{"badEmail", func(in *SubmitOrderInput) { email := "not-an-email"; in.CustomerEmail = &email }, "customer_email"},
		{"overQuantity", func(in *SubmitOrderInput) { in.Items[0].Quantity = 100 }, "items"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(f)
			tc.mutate(&input)

			_, err := f.svc.Submit(context.Background(), input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

			fields, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestSubmit_unknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)

	input := validInput(f)
	input.Items[0].ProductID = uuid.New()

	_, err := f.svc.Submit(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSubmit_unavailableProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	f.dauXanh.IsAvailable = false

	_, err := f.svc.Submit(context.Background(), validInput(f))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSubmit_missingStatusConfiguration(t *testing.T) {
	f := newCheckoutFixture(t)
	svcImpl := f.svc.(*service)
	svcImpl.statuses = &stubStatuses{status: nil}

	_, err := f.svc.Submit(context.Background(), validInput(f))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
}

func TestSubmit_fallsBackToMinPriceWithoutTiers(t *testing.T) {
	f := newCheckoutFixture(t)
	svcImpl := f.svc.(*service)
	svcImpl.resolver = &stubResolver{tier: nil}

	input := validInput(f)
	input.Items[0].UnitPrice = 80000 // min across tier prices
	input.TotalAmount = 160000

	result, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Regexp(t, orderCodeRe, result.OrderCode)
}
