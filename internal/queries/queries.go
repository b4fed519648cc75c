package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
)

// SubmitRequest is the contact-form payload.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=5,max=2000"`
}

// QueryDTO is the transport shape of a customer query.
type QueryDTO struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Message   string            `json:"message"`
	Status    enums.QueryStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Service handles customer contact queries.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*QueryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*QueryDTO, error)
	List(ctx context.Context) ([]QueryDTO, error)
	MarkResponded(ctx context.Context, id uuid.UUID) (*QueryDTO, error)
}

type queryRepository interface {
	Create(ctx context.Context, query *models.CustomerQuery) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerQuery, error)
	List(ctx context.Context) ([]models.CustomerQuery, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.QueryStatus) (int64, error)
}

type service struct {
	repo queryRepository
}

// NewService constructs the customer queries service.
func NewService(repo queryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("query repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*QueryDTO, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required")
	}

	query := &models.CustomerQuery{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Message: message,
		Status:  enums.QueryStatusPending,
	}
	if err := s.repo.Create(ctx, query); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create query")
	}
	return toDTO(query), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*QueryDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query id required")
	}
	query, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "query not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load query")
	}
	return toDTO(query), nil
}

func (s *service) List(ctx context.Context) ([]QueryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list queries")
	}
	dtos := make([]QueryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) MarkResponded(ctx context.Context, id uuid.UUID) (*QueryDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query id required")
	}
	modified, err := s.repo.SetStatus(ctx, id, enums.QueryStatusResponded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update query status")
	}
	if modified == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "query not found")
	}
	return s.Get(ctx, id)
}

func toDTO(q *models.CustomerQuery) *QueryDTO {
	return &QueryDTO{
		ID:        q.ID,
		Name:      q.Name,
		Email:     q.Email,
		Message:   q.Message,
		Status:    q.Status,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
