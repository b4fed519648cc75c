package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
)

// StockArrival is one incoming stock line from the admin upload flow.
// Arrivals landing on an existing (video_url, category, size, price)
// quadruple add to that line's quantity instead of creating a new row.
type StockArrival struct {
	VideoURL string                `json:"video_url" validate:"required,url"`
	Category enums.GarmentCategory `json:"category" validate:"required"`
	Size     enums.GarmentSize     `json:"size" validate:"required"`
	Price    decimal.Decimal       `json:"price" validate:"required"`
	Quantity int                   `json:"quantity" validate:"required,gt=0"`
}

// DecrementLine identifies one stock line to draw down during settlement.
// The full natural key is carried so the decrement pins exactly one row;
// distinct reels at the same category, size and price are separate stock.
type DecrementLine struct {
	VideoURL string
	Category enums.GarmentCategory
	Size     enums.GarmentSize
	Price    decimal.Decimal
	Quantity int
}

// BatchResult reports how many lines a batch decrement touched, plus the
// stock lines it drained to zero.
type BatchResult struct {
	Matched  int64            `json:"matched"`
	Modified int64            `json:"modified"`
	Depleted []models.Variant `json:"-"`
}

// VariantSummary is the storefront view of one stock line.
type VariantSummary struct {
	ID        uuid.UUID             `json:"id"`
	VideoURL  string                `json:"video_url"`
	Category  enums.GarmentCategory `json:"category"`
	Size      enums.GarmentSize     `json:"size"`
	Price     decimal.Decimal       `json:"price"`
	Quantity  int                   `json:"quantity"`
	CreatedAt time.Time             `json:"created_at"`
}

// VariantList wraps paginated variants plus the next page cursor.
type VariantList struct {
	Variants   []VariantSummary `json:"variants"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
