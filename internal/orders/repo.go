package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error)
	MarkFailed(ctx context.Context, gatewayOrderID string) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips the order to paid only if it is not paid already. The
// guard in the WHERE clause makes concurrent confirms race-safe: exactly
// one caller observes a modified row.
func (r *repository) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("gateway_order_id = ? AND status <> ?", gatewayOrderID, enums.OrderStatusPaid).
		Updates(map[string]any{
			"status":     enums.OrderStatusPaid,
			"payment_id": paymentID,
			"paid_at":    now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) MarkFailed(ctx context.Context, gatewayOrderID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("gateway_order_id = ? AND status = ?", gatewayOrderID, enums.OrderStatusCreated).
		Update("status", enums.OrderStatusFailed)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, nil)
}

func (r *repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) (*OrderList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if scope != nil {
		query = scope(query)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows))}
	if len(rows) > pageSize {
		last := rows[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:pageSize]
	}
	for _, row := range rows {
		list.Orders = append(list.Orders, OrderSummary{
			ID:             row.ID,
			GatewayOrderID: row.GatewayOrderID,
			AmountPaise:    row.AmountPaise,
			Status:         row.Status,
			ItemCount:      len(row.Items),
			CreatedAt:      row.CreatedAt,
		})
	}
	return list, nil
}

// ToDetail maps a persisted order to its client view.
func ToDetail(order *models.Order) *OrderDetail {
	detail := &OrderDetail{
		ID:              order.ID,
		GatewayOrderID:  order.GatewayOrderID,
		PaymentID:       order.PaymentID,
		AmountPaise:     order.AmountPaise,
		Currency:        order.Currency,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
		Items:           make([]OrderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderItemView{
			VideoURL: item.VideoURL,
			Category: item.Category,
			Size:     item.Size,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return detail
}
