package outbox

import (
	"github.com/google/uuid"
)

// OrderCreatedPayload is emitted when checkout registers a gateway order.
type OrderCreatedPayload struct {
	OrderID        uuid.UUID `json:"orderId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	AmountPaise    int64     `json:"amountPaise"`
	Currency       string    `json:"currency"`
	ItemCount      int       `json:"itemCount"`
}

// OrderPaidPayload is emitted when settlement flips an order to paid.
type OrderPaidPayload struct {
	OrderID        uuid.UUID `json:"orderId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	PaymentID      string    `json:"paymentId"`
	AmountPaise    int64     `json:"amountPaise"`
}

// StockDepletedPayload is emitted when a settlement drains a stock line to zero.
type StockDepletedPayload struct {
	VariantID uuid.UUID `json:"variantId"`
	Category  string    `json:"category"`
	Size      string    `json:"size"`
	VideoURL  string    `json:"videoUrl"`
}
