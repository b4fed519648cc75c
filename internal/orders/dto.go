package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	"github.com/dhruvkatara/threadreel-backend/pkg/types"
)

// OrderItemView is one purchased line as returned to clients.
type OrderItemView struct {
	VideoURL string                `json:"video_url"`
	Category enums.GarmentCategory `json:"category"`
	Size     enums.GarmentSize     `json:"size"`
	Price    decimal.Decimal       `json:"price"`
	Quantity int                   `json:"quantity"`
}

// OrderDetail is the full order view.
type OrderDetail struct {
	ID              uuid.UUID             `json:"id"`
	GatewayOrderID  string                `json:"gateway_order_id"`
	PaymentID       *string               `json:"payment_id,omitempty"`
	AmountPaise     int64                 `json:"amount_paise"`
	Currency        enums.Currency        `json:"currency"`
	Status          enums.OrderStatus     `json:"status"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Items           []OrderItemView       `json:"items"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID             uuid.UUID         `json:"id"`
	GatewayOrderID string            `json:"gateway_order_id"`
	AmountPaise    int64             `json:"amount_paise"`
	Status         enums.OrderStatus `json:"status"`
	ItemCount      int               `json:"item_count"`
	CreatedAt      time.Time         `json:"created_at"`
}

// OrderList wraps paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
