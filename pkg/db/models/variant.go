package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
)

// Variant is one sellable stock line: a garment category in a specific
// size at a specific price point, grouped by the reel it appeared in.
// The quadruple (video_url, category, size, price) is the natural key
// that stock arrivals merge into.
type Variant struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VideoURL  string                `gorm:"column:video_url;not null;uniqueIndex:idx_variants_natural_key"`
	Category  enums.GarmentCategory `gorm:"column:category;type:garment_category;not null;uniqueIndex:idx_variants_natural_key"`
	Size      enums.GarmentSize     `gorm:"column:size;type:garment_size;not null;uniqueIndex:idx_variants_natural_key"`
	Price     decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null;uniqueIndex:idx_variants_natural_key"`
	Quantity  int                   `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Variant) TableName() string {
	return "inventory_variants"
}
