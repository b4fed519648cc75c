package categories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db"
	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
)

const nameUniqueConstraint = "idx_categories_name"

// CreateRequest is the payload for adding a storefront tile.
type CreateRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=80"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Position int     `json:"position" validate:"gte=0"`
}

// CategoryDTO is the transport shape of a category tile.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service manages browsable category tiles.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CategoryDTO, error)
	List(ctx context.Context) ([]CategoryDTO, error)
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo categoryRepository
}

// NewService constructs the categories service.
func NewService(repo categoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ImageURL: req.ImageURL,
		Position: req.Position,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, nameUniqueConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return toDTO(category), nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
	}
	return dtos, nil
}

func toDTO(c *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		ImageURL:  c.ImageURL,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Repository persists category tiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// List returns all tiles in display order.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("position ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
