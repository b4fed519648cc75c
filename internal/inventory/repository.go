package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
)

// Repository defines persistence operations for stock lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertStock(ctx context.Context, arrival StockArrival) (*models.Variant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	ListByCategorySize(ctx context.Context, category enums.GarmentCategory, size enums.GarmentSize) ([]models.Variant, error)
	ListAll(ctx context.Context, params pagination.Params) (*VariantList, error)
	DecrementIfAvailable(ctx context.Context, line DecrementLine) (int64, error)
	FindDepleted(ctx context.Context, line DecrementLine) ([]models.Variant, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// UpsertStock merges an arrival into its stock line, adding quantities when
// the natural key already exists.
func (r *repository) UpsertStock(ctx context.Context, arrival StockArrival) (*models.Variant, error) {
	variant := models.Variant{
		ID:       uuid.New(),
		VideoURL: arrival.VideoURL,
		Category: arrival.Category,
		Size:     arrival.Size,
		Price:    arrival.Price,
		Quantity: arrival.Quantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "video_url"},
				{Name: "category"},
				{Name: "size"},
				{Name: "price"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("inventory_variants.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&variant).Error
	if err != nil {
		return nil, err
	}

	// Re-read so callers see the merged quantity, not the arrival's.
	var current models.Variant
	err = r.db.WithContext(ctx).
		Where("video_url = ? AND category = ? AND size = ? AND price = ?",
			arrival.VideoURL, arrival.Category, arrival.Size, arrival.Price).
		First(&current).Error
	if err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) ListByCategorySize(ctx context.Context, category enums.GarmentCategory, size enums.GarmentSize) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.WithContext(ctx).
		Where("category = ? AND size = ? AND quantity > 0", category, size).
		Order("created_at DESC").
		Find(&variants).Error
	return variants, err
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params) (*VariantList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Variant{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Variant
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	list := &VariantList{Variants: make([]VariantSummary, 0, len(rows))}
	if len(rows) > pageSize {
		last := rows[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:pageSize]
	}
	for _, row := range rows {
		list.Variants = append(list.Variants, variantToSummary(row))
	}
	return list, nil
}

func variantToSummary(row models.Variant) VariantSummary {
	return VariantSummary{
		ID:        row.ID,
		VideoURL:  row.VideoURL,
		Category:  row.Category,
		Size:      row.Size,
		Price:     row.Price,
		Quantity:  row.Quantity,
		CreatedAt: row.CreatedAt,
	}
}

// DecrementIfAvailable draws down one stock line only when enough units
// remain. The filter carries the full natural key so exactly one row can
// match; without video_url a sale would drain every same-priced reel in
// the category and size. Returns the number of rows modified; zero means
// the sale would oversell and nothing was changed.
func (r *repository) DecrementIfAvailable(ctx context.Context, line DecrementLine) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("video_url = ? AND category = ? AND size = ? AND price = ? AND quantity >= ?",
			line.VideoURL, line.Category, line.Size, line.Price, line.Quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", line.Quantity),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// FindDepleted returns the decrement target if it has just hit zero, so
// settlement can flag it downstream.
func (r *repository) FindDepleted(ctx context.Context, line DecrementLine) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.WithContext(ctx).
		Where("video_url = ? AND category = ? AND size = ? AND price = ? AND quantity = 0",
			line.VideoURL, line.Category, line.Size, line.Price).
		Find(&variants).Error
	return variants, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Variant{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
