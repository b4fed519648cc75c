package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/internal/inventory"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/outbox"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
	"github.com/dhruvkatara/threadreel-backend/pkg/razorpay"
	"github.com/dhruvkatara/threadreel-backend/pkg/types"
)

type stubOrdersRepo struct {
	created   []*models.Order
	createErr error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error) {
	return 0, nil
}

func (s *stubOrdersRepo) MarkFailed(ctx context.Context, gatewayOrderID string) (int64, error) {
	return 0, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

type stubStock struct {
	availabilityErr error
	checkedLines    []inventory.DecrementLine
}

func (s *stubStock) UpsertStock(ctx context.Context, arrivals []inventory.StockArrival) ([]inventory.VariantSummary, error) {
	return nil, nil
}

func (s *stubStock) ListByCategorySize(ctx context.Context, category, size string) ([]inventory.VariantSummary, error) {
	return nil, nil
}

func (s *stubStock) ListAll(ctx context.Context, params pagination.Params) (*inventory.VariantList, error) {
	return &inventory.VariantList{}, nil
}

func (s *stubStock) DeleteVariant(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubStock) CheckAvailability(ctx context.Context, lines []inventory.DecrementLine) error {
	s.checkedLines = lines
	return s.availabilityErr
}

type stubGateway struct {
	order      *razorpay.GatewayOrder
	err        error
	callCount  int
	lastAmount int64
}

func (s *stubGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.GatewayOrder, error) {
	s.callCount++
	s.lastAmount = amountPaise
	if s.err != nil {
		return nil, s.err
	}
	if s.order != nil {
		return s.order, nil
	}
	return &razorpay.GatewayOrder{
		ID:          "order_" + uuid.NewString(),
		AmountPaise: amountPaise,
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		Items: []CheckoutItem{
			{
				VideoURL: "https://cdn.example.com/reels/a.mp4",
				Category: enums.GarmentCategoryShirts,
				Size:     enums.GarmentSizeM,
				Price:    decimal.RequireFromString("1499.00"),
				Quantity: 2,
			},
		},
		ShippingAddress: types.ShippingAddress{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Street:  "14 MG Road",
			City:    "Bengaluru",
			State:   "KA",
			Pincode: "560001",
			Phone:   "9876543210",
		},
	}
}

func newCheckoutService(t *testing.T, repo *stubOrdersRepo, stock *stubStock, gateway *stubGateway, ob *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, stock, gateway, "rzp_test_key", stubTxRunner{}, ob)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOrderHappyPath(t *testing.T) {
	repo := &stubOrdersRepo{}
	stock := &stubStock{}
	gateway := &stubGateway{}
	ob := &stubOutboxPublisher{}
	svc := newCheckoutService(t, repo, stock, gateway, ob)

	result, err := svc.CreateOrder(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if gateway.lastAmount != 299800 {
		t.Fatalf("expected 299800 paise, got %d", gateway.lastAmount)
	}
	if result.GatewayOrderID == "" || result.GatewayKeyID != "rzp_test_key" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.created))
	}
	order := repo.created[0]
	if order.Status != enums.OrderStatusCreated {
		t.Fatalf("new orders must start as created, got %s", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items %+v", order.Items)
	}
	if len(stock.checkedLines) != 1 || stock.checkedLines[0].VideoURL != order.Items[0].VideoURL {
		t.Fatalf("advisory check must carry the video url, got %+v", stock.checkedLines)
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order.created event, got %+v", ob.events)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newCheckoutService(t, &stubOrdersRepo{}, &stubStock{}, &stubGateway{}, &stubOutboxPublisher{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"no items", func(in *CreateOrderInput) { in.Items = nil }},
		{"bad category", func(in *CreateOrderInput) { in.Items[0].Category = "HOODIE" }},
		{"bad size", func(in *CreateOrderInput) { in.Items[0].Size = "XS" }},
		{"zero price", func(in *CreateOrderInput) { in.Items[0].Price = decimal.Zero }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"missing address", func(in *CreateOrderInput) { in.ShippingAddress = types.ShippingAddress{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.CreateOrder(ctx, input)
			var domainErr *pkgerrors.Error
			if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateOrderStopsWhenStockUnavailable(t *testing.T) {
	gateway := &stubGateway{}
	stock := &stubStock{
		availabilityErr: pkgerrors.New(pkgerrors.CodeValidation, "item 0: SHIRTS M is out of stock"),
	}
	svc := newCheckoutService(t, &stubOrdersRepo{}, stock, gateway, &stubOutboxPublisher{})

	// Unavailable stock at intake is a request validation failure; the
	// 409 stock conflict belongs to settlement only.
	_, err := svc.CreateOrder(context.Background(), validInput())
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gateway.callCount != 0 {
		t.Fatal("gateway must not be called when the advisory check fails")
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	repo := &stubOrdersRepo{}
	gateway := &stubGateway{err: errors.New("upstream 502")}
	svc := newCheckoutService(t, repo, &stubStock{}, gateway, &stubOutboxPublisher{})

	_, err := svc.CreateOrder(context.Background(), validInput())
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("no order may be persisted when the gateway call fails")
	}
}

func TestCreateOrderPersistFailureSurfaces(t *testing.T) {
	repo := &stubOrdersRepo{createErr: errors.New("disk full")}
	svc := newCheckoutService(t, repo, &stubStock{}, &stubGateway{}, &stubOutboxPublisher{})

	_, err := svc.CreateOrder(context.Background(), validInput())
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestTotalPaiseIsExact(t *testing.T) {
	items := []CheckoutItem{
		{Price: decimal.RequireFromString("19.99"), Quantity: 3},
		{Price: decimal.RequireFromString("0.01"), Quantity: 1},
	}
	if got := totalPaise(items); got != 5998 {
		t.Fatalf("expected 5998 paise, got %d", got)
	}
}
