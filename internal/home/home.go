package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
)

// UpdateRequest replaces the landing page copy. Each post creates a new
// row; reads always return the latest one.
type UpdateRequest struct {
	Heading   string  `json:"heading" validate:"required,min=2,max=200"`
	Subtext   string  `json:"subtext" validate:"max=1000"`
	BannerURL *string `json:"banner_url,omitempty" validate:"omitempty,url"`
}

// HomeTextDTO is the transport shape of the landing page copy.
type HomeTextDTO struct {
	ID        uuid.UUID `json:"id"`
	Heading   string    `json:"heading"`
	Subtext   string    `json:"subtext"`
	BannerURL *string   `json:"banner_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service manages the landing page copy.
type Service interface {
	Update(ctx context.Context, req UpdateRequest) (*HomeTextDTO, error)
	Latest(ctx context.Context) (*HomeTextDTO, error)
}

type homeRepository interface {
	Create(ctx context.Context, text *models.HomeText) error
	Latest(ctx context.Context) (*models.HomeText, error)
}

type service struct {
	repo homeRepository
}

// NewService constructs the home content service.
func NewService(repo homeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("home repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*HomeTextDTO, error) {
	heading := strings.TrimSpace(req.Heading)
	if heading == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "heading is required")
	}

	text := &models.HomeText{
		ID:        uuid.New(),
		Heading:   heading,
		Subtext:   strings.TrimSpace(req.Subtext),
		BannerURL: req.BannerURL,
	}
	if err := s.repo.Create(ctx, text); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create home text")
	}
	return toDTO(text), nil
}

func (s *service) Latest(ctx context.Context) (*HomeTextDTO, error) {
	text, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "home text not set")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load home text")
	}
	return toDTO(text), nil
}

func toDTO(t *models.HomeText) *HomeTextDTO {
	return &HomeTextDTO{
		ID:        t.ID,
		Heading:   t.Heading,
		Subtext:   t.Subtext,
		BannerURL: t.BannerURL,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// Repository persists landing page copy revisions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a home repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, text *models.HomeText) error {
	return r.db.WithContext(ctx).Create(text).Error
}

// Latest returns the most recently posted copy.
func (r *Repository) Latest(ctx context.Context) (*models.HomeText, error) {
	var text models.HomeText
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&text).Error; err != nil {
		return nil, err
	}
	return &text, nil
}
