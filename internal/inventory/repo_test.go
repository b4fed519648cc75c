package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
)

func TestUpsertStockMergesQuantities(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	arrival := testArrival(enums.GarmentCategoryShirts, enums.GarmentSizeM, "1499.00", 5)

	first, err := repo.UpsertStock(ctx, arrival)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", first.Quantity)
	}

	arrival.Quantity = 3
	second, err := repo.UpsertStock(ctx, arrival)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Quantity != 8 {
		t.Fatalf("expected merged quantity 8, got %d", second.Quantity)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same stock line, got new row")
	}
}

func TestUpsertStockDifferentPriceCreatesNewLine(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	arrival := testArrival(enums.GarmentCategoryKurta, enums.GarmentSizeL, "999.00", 2)
	first, err := repo.UpsertStock(ctx, arrival)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	arrival.Price = decimal.RequireFromString("1099.00")
	second, err := repo.UpsertStock(ctx, arrival)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a distinct stock line for a different price")
	}
	if second.Quantity != 2 {
		t.Fatalf("expected quantity 2 on new line, got %d", second.Quantity)
	}
}

func TestDecrementIfAvailable(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	variant := mustCreateTestVariant(t, tx, enums.GarmentCategoryModiJacket, enums.GarmentSizeXL, "2499.00", 4)

	line := DecrementLine{
		VideoURL: variant.VideoURL,
		Category: variant.Category,
		Size:     variant.Size,
		Price:    variant.Price,
		Quantity: 3,
	}

	modified, err := repo.DecrementIfAvailable(ctx, line)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if modified != 1 {
		t.Fatalf("expected 1 row modified, got %d", modified)
	}

	fetched, err := repo.FindByID(ctx, variant.ID)
	if err != nil {
		t.Fatalf("find variant: %v", err)
	}
	if fetched.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", fetched.Quantity)
	}

	// Asking for more than remains must not modify anything.
	modified, err = repo.DecrementIfAvailable(ctx, line)
	if err != nil {
		t.Fatalf("oversell decrement: %v", err)
	}
	if modified != 0 {
		t.Fatalf("expected 0 rows modified on oversell, got %d", modified)
	}

	fetched, err = repo.FindByID(ctx, variant.ID)
	if err != nil {
		t.Fatalf("find variant: %v", err)
	}
	if fetched.Quantity != 1 {
		t.Fatalf("oversell must leave quantity untouched, got %d", fetched.Quantity)
	}
}

func TestDecrementTouchesOnlyTheTargetVariant(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	// Two reels selling the same garment at the same price are distinct
	// stock lines; a sale on one must never drain the other.
	target := mustCreateTestVariant(t, tx, enums.GarmentCategoryShirts, enums.GarmentSizeM, "499.00", 5)
	bystander := mustCreateTestVariant(t, tx, enums.GarmentCategoryShirts, enums.GarmentSizeM, "499.00", 5)

	modified, err := repo.DecrementIfAvailable(ctx, DecrementLine{
		VideoURL: target.VideoURL,
		Category: target.Category,
		Size:     target.Size,
		Price:    target.Price,
		Quantity: 1,
	})
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if modified != 1 {
		t.Fatalf("expected exactly 1 row modified, got %d", modified)
	}

	after, err := repo.FindByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("find target: %v", err)
	}
	if after.Quantity != 4 {
		t.Fatalf("target quantity = %d, want 4", after.Quantity)
	}

	untouched, err := repo.FindByID(ctx, bystander.ID)
	if err != nil {
		t.Fatalf("find bystander: %v", err)
	}
	if untouched.Quantity != 5 {
		t.Fatalf("bystander quantity = %d, want 5", untouched.Quantity)
	}
}

func TestFindDepleted(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	variant := mustCreateTestVariant(t, tx, enums.GarmentCategoryEndoWestern, enums.GarmentSizeS, "1899.00", 2)

	line := DecrementLine{
		VideoURL: variant.VideoURL,
		Category: variant.Category,
		Size:     variant.Size,
		Price:    variant.Price,
		Quantity: 2,
	}
	if _, err := repo.DecrementIfAvailable(ctx, line); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	zeroed, err := repo.FindDepleted(ctx, line)
	if err != nil {
		t.Fatalf("find depleted: %v", err)
	}
	if len(zeroed) != 1 || zeroed[0].ID != variant.ID {
		t.Fatalf("expected the drained line, got %v", zeroed)
	}
}

func TestListAllPagination(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateTestVariant(t, tx, enums.GarmentCategoryShirts, enums.GarmentSizeM, "1299.00", 1)
	}

	page, err := repo.ListAll(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(page.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(page.Variants))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}

	rest, err := repo.ListAll(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list next page: %v", err)
	}
	if len(rest.Variants) == 0 {
		t.Fatal("expected remaining variants on next page")
	}
}
