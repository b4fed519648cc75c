package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/internal/inventory"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
	"github.com/dhruvkatara/threadreel-backend/pkg/metrics"
	"github.com/dhruvkatara/threadreel-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ConfirmInput carries the gateway callback data for one payment.
type ConfirmInput struct {
	GatewayOrderID string `json:"order_id" validate:"required"`
	PaymentID      string `json:"payment_id" validate:"required"`
}

// InventoryUpdate summarizes the stock drawdown a settlement performed.
// Replays report zeros; their decrement already happened.
type InventoryUpdate struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// ConfirmResult reports the settled order state.
type ConfirmResult struct {
	OrderID         uuid.UUID           `json:"order_id"`
	GatewayOrderID  string              `json:"gateway_order_id"`
	Status          enums.OrderStatus   `json:"status"`
	AlreadyPaid     bool                `json:"already_paid"`
	Order           *orders.OrderDetail `json:"order"`
	InventoryUpdate InventoryUpdate     `json:"inventory_update"`
}

// Service settles confirmed payments against orders and stock.
type Service interface {
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
}

type service struct {
	ordersRepo orders.Repository
	stockRepo  inventory.Repository
	tx         txRunner
	outbox     outboxPublisher
	metrics    *metrics.SettlementMetrics
	logg       *logger.Logger
}

// NewService builds the settlement service with the required dependencies.
func NewService(ordersRepo orders.Repository, stockRepo inventory.Repository, tx txRunner, ob outboxPublisher, m *metrics.SettlementMetrics, logg *logger.Logger) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		ordersRepo: ordersRepo,
		stockRepo:  stockRepo,
		tx:         tx,
		outbox:     ob,
		metrics:    m,
		logg:       logg,
	}, nil
}

// Confirm settles one payment. The status flip and the stock decrement
// happen in one transaction: if any stock line cannot cover its quantity
// the whole settlement rolls back and the order stays unpaid. Replays of
// an already-paid order succeed without touching stock.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	if input.GatewayOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PaymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	start := time.Now()
	result, err := s.settle(ctx, input)
	s.observe(result, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) settle(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	var result *ConfirmResult

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)

		order, err := ordersRepo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// Idempotency guard: a replayed confirm of a settled order is a
		// success and must not decrement stock again.
		if order.Status == enums.OrderStatusPaid {
			result = &ConfirmResult{
				OrderID:        order.ID,
				GatewayOrderID: order.GatewayOrderID,
				Status:         order.Status,
				AlreadyPaid:    true,
				Order:          orders.ToDetail(order),
			}
			return nil
		}

		modified, err := ordersRepo.MarkPaid(ctx, input.GatewayOrderID, input.PaymentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if modified == 0 {
			// Lost the race. If the winner settled it, report success.
			current, err := ordersRepo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
			if err == nil && current.Status == enums.OrderStatusPaid {
				result = &ConfirmResult{
					OrderID:        current.ID,
					GatewayOrderID: current.GatewayOrderID,
					Status:         current.Status,
					AlreadyPaid:    true,
					Order:          orders.ToDetail(current),
				}
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStatusConflict, "order status changed concurrently")
		}

		lines := decrementLines(order.Items)
		batch, err := inventory.DecrementBatch(ctx, stockRepo, lines)
		if err != nil {
			return err
		}

		if err := s.emitEvents(ctx, tx, order, input.PaymentID, batch.Depleted); err != nil {
			return err
		}

		// Re-read so the response carries the payment id and paid_at
		// that MarkPaid just wrote.
		settled, err := ordersRepo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload settled order")
		}

		result = &ConfirmResult{
			OrderID:        settled.ID,
			GatewayOrderID: settled.GatewayOrderID,
			Status:         enums.OrderStatusPaid,
			Order:          orders.ToDetail(settled),
			InventoryUpdate: InventoryUpdate{
				Matched:  batch.Matched,
				Modified: batch.Modified,
			},
		}
		return nil
	})
	if err != nil {
		s.failOnStockShortfall(ctx, input.GatewayOrderID, err)
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, result.OrderID.String())
		if result.AlreadyPaid {
			s.logg.Info(logCtx, "payment confirm replayed on settled order")
		} else {
			s.logg.Info(logCtx, "order settled")
		}
	}
	return result, nil
}

func (s *service) emitEvents(ctx context.Context, tx *gorm.DB, order *models.Order, paymentID string, depleted []models.Variant) error {
	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderPaid,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: outbox.OrderPaidPayload{
			OrderID:        order.ID,
			GatewayOrderID: order.GatewayOrderID,
			PaymentID:      paymentID,
			AmountPaise:    order.AmountPaise,
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order paid event")
	}

	for _, variant := range depleted {
		err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStockDepleted,
			AggregateType: enums.AggregateVariant,
			AggregateID:   variant.ID,
			Version:       1,
			Data: outbox.StockDepletedPayload{
				VariantID: variant.ID,
				Category:  string(variant.Category),
				Size:      string(variant.Size),
				VideoURL:  variant.VideoURL,
			},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit stock depleted event")
		}
	}
	return nil
}

// failOnStockShortfall flips the order to failed after a settlement that
// rolled back on insufficient stock. Runs outside the settlement
// transaction; MarkFailed only touches orders still in created, so a
// concurrent winner's paid status is never clobbered.
func (s *service) failOnStockShortfall(ctx context.Context, gatewayOrderID string, settleErr error) {
	var domainErr *pkgerrors.Error
	if !errors.As(settleErr, &domainErr) || domainErr.Code() != pkgerrors.CodeInsufficientStock {
		return
	}
	if _, err := s.ordersRepo.MarkFailed(ctx, gatewayOrderID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "mark order failed after stock shortfall", err)
	}
}

func decrementLines(items []models.OrderItem) []inventory.DecrementLine {
	lines := make([]inventory.DecrementLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventory.DecrementLine{
			VideoURL: item.VideoURL,
			Category: item.Category,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return lines
}

func (s *service) observe(result *ConfirmResult, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomePaid
	switch {
	case err == nil && result != nil && result.AlreadyPaid:
		outcome = metrics.OutcomeAlreadyPaid
	case err != nil:
		outcome = metrics.OutcomeError
		var domainErr *pkgerrors.Error
		if errors.As(err, &domainErr) {
			switch domainErr.Code() {
			case pkgerrors.CodeInsufficientStock:
				outcome = metrics.OutcomeInsufficientStock
				if details, ok := domainErr.Details().(map[string]string); ok {
					s.metrics.IncStockout(details["category"])
				}
			case pkgerrors.CodeStatusConflict:
				outcome = metrics.OutcomeStatusConflict
			case pkgerrors.CodeNotFound:
				outcome = metrics.OutcomeNotFound
			}
		}
	}
	s.metrics.ObserveSettlement(outcome, elapsed)
}
