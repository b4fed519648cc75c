package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/internal/inventory"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/outbox"
	"github.com/dhruvkatara/threadreel-backend/pkg/razorpay"
	"github.com/dhruvkatara/threadreel-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CheckoutItem is one line the customer is buying.
type CheckoutItem struct {
	VideoURL string                `json:"video_url" validate:"required,url"`
	Category enums.GarmentCategory `json:"category" validate:"required"`
	Size     enums.GarmentSize     `json:"size" validate:"required"`
	Price    decimal.Decimal       `json:"price" validate:"required"`
	Quantity int                   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput is the checkout request after body validation.
type CreateOrderInput struct {
	UserID          *uuid.UUID
	Items           []CheckoutItem
	ShippingAddress types.ShippingAddress
}

// CheckoutResult carries everything the storefront needs to open the
// payment widget.
type CheckoutResult struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	AmountPaise    int64     `json:"amount_paise"`
	Currency       string    `json:"currency"`
	GatewayKeyID   string    `json:"gateway_key_id"`
}

// Service creates orders and registers them with the payment gateway.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CheckoutResult, error)
}

type service struct {
	ordersRepo orders.Repository
	stock      inventory.Service
	gateway    razorpay.Gateway
	keyID      string
	tx         txRunner
	outbox     outboxPublisher
}

// NewService builds a checkout service with the required dependencies.
func NewService(ordersRepo orders.Repository, stock inventory.Service, gateway razorpay.Gateway, keyID string, tx txRunner, ob outboxPublisher) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		ordersRepo: ordersRepo,
		stock:      stock,
		gateway:    gateway,
		keyID:      keyID,
		tx:         tx,
		outbox:     ob,
	}, nil
}

// CreateOrder runs the advisory stock check, registers the order upstream
// and persists it as created. Stock is not reserved here; the settlement
// transaction owns the authoritative decrement.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CheckoutResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	lines := make([]inventory.DecrementLine, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, inventory.DecrementLine{
			VideoURL: item.VideoURL,
			Category: item.Category,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	if err := s.stock.CheckAvailability(ctx, lines); err != nil {
		return nil, err
	}

	amountPaise := totalPaise(input.Items)
	receipt := "tr_" + uuid.NewString()

	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountPaise, string(enums.CurrencyINR), receipt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gateway order")
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		GatewayOrderID:  gatewayOrder.ID,
		AmountPaise:     amountPaise,
		Currency:        enums.CurrencyINR,
		Status:          enums.OrderStatusCreated,
		ShippingAddress: input.ShippingAddress,
		Items:           make([]models.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			VideoURL: item.VideoURL,
			Category: item.Category,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: outbox.OrderCreatedPayload{
				OrderID:        order.ID,
				GatewayOrderID: order.GatewayOrderID,
				AmountPaise:    order.AmountPaise,
				Currency:       string(order.Currency),
				ItemCount:      len(order.Items),
			},
		})
	})
	if err != nil {
		// The gateway order exists upstream but was never persisted. It
		// expires on its own; nothing references it locally.
		return nil, err
	}

	return &CheckoutResult{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		AmountPaise:    order.AmountPaise,
		Currency:       string(order.Currency),
		GatewayKeyID:   s.keyID,
	}, nil
}

func validateInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for i, item := range input.Items {
		if item.VideoURL == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: video url required", i))
		}
		if !item.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: unknown category %q", i, item.Category))
		}
		if !item.Size.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: unknown size %q", i, item.Size))
		}
		if item.Price.IsNegative() || item.Price.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: price must be positive", i))
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
	}
	if input.ShippingAddress.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	return nil
}

// totalPaise sums item prices in rupees into the paise amount the gateway
// expects. Decimal math avoids float drift on the way down.
func totalPaise(items []CheckoutItem) int64 {
	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	for _, item := range items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Mul(hundred).IntPart()
}
