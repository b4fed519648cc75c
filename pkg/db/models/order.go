package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	"github.com/dhruvkatara/threadreel-backend/pkg/types"
)

// Order is the customer order created at checkout. GatewayOrderID is the
// Razorpay order id and is the handle the confirm flow settles against.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID            `gorm:"column:user_id;type:uuid;index"`
	GatewayOrderID  string                `gorm:"column:gateway_order_id;not null;uniqueIndex"`
	PaymentID       *string               `gorm:"column:payment_id"`
	AmountPaise     int64                 `gorm:"column:amount_paise;not null"`
	Currency        enums.Currency        `gorm:"column:currency;type:text;not null;default:'INR'"`
	Status          enums.OrderStatus     `gorm:"column:status;type:order_status;not null;default:'created'"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt          *time.Time            `gorm:"column:paid_at"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one purchased line. Category, size and price are
// copied from the variant at checkout so the settlement decrement targets
// the same stock line the customer saw.
type OrderItem struct {
	ID       uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	VideoURL string                `gorm:"column:video_url;not null"`
	Category enums.GarmentCategory `gorm:"column:category;type:garment_category;not null"`
	Size     enums.GarmentSize     `gorm:"column:size;type:garment_size;not null"`
	Price    decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity int                   `gorm:"column:quantity;not null"`
}
