package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
)

// Repository persists customer queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a queries repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, query *models.CustomerQuery) error {
	return r.db.WithContext(ctx).Create(query).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerQuery, error) {
	var query models.CustomerQuery
	if err := r.db.WithContext(ctx).First(&query, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &query, nil
}

// List returns all queries, newest first.
func (r *Repository) List(ctx context.Context) ([]models.CustomerQuery, error) {
	var rows []models.CustomerQuery
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.QueryStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerQuery{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	return result.RowsAffected, result.Error
}
