package inventory

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
)

func mustCreateTestVariant(t *testing.T, tx *gorm.DB, category enums.GarmentCategory, size enums.GarmentSize, price string, qty int) *models.Variant {
	t.Helper()
	variant := &models.Variant{
		ID:       uuid.New(),
		VideoURL: fmt.Sprintf("https://cdn.example.com/reels/%s.mp4", uuid.NewString()),
		Category: category,
		Size:     size,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}

func testArrival(category enums.GarmentCategory, size enums.GarmentSize, price string, qty int) StockArrival {
	return StockArrival{
		VideoURL: fmt.Sprintf("https://cdn.example.com/reels/%s.mp4", uuid.NewString()),
		Category: category,
		Size:     size,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}
