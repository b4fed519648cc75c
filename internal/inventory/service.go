package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
)

// Service defines the stock operations exposed to controllers and checkout.
type Service interface {
	UpsertStock(ctx context.Context, arrivals []StockArrival) ([]VariantSummary, error)
	ListByCategorySize(ctx context.Context, category, size string) ([]VariantSummary, error)
	ListAll(ctx context.Context, params pagination.Params) (*VariantList, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	CheckAvailability(ctx context.Context, lines []DecrementLine) error
}

type service struct {
	repo Repository
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) UpsertStock(ctx context.Context, arrivals []StockArrival) ([]VariantSummary, error) {
	if len(arrivals) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one stock line is required")
	}

	for i, arrival := range arrivals {
		if err := validateArrival(i, arrival); err != nil {
			return nil, err
		}
	}

	summaries := make([]VariantSummary, 0, len(arrivals))
	for _, arrival := range arrivals {
		variant, err := s.repo.UpsertStock(ctx, arrival)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert stock line")
		}
		summaries = append(summaries, variantToSummary(*variant))
	}
	return summaries, nil
}

func validateArrival(idx int, arrival StockArrival) error {
	if arrival.VideoURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: video url required", idx))
	}
	if !arrival.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: unknown category %q", idx, arrival.Category))
	}
	if !arrival.Size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: unknown size %q", idx, arrival.Size))
	}
	if arrival.Price.IsNegative() || arrival.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: price must be positive", idx))
	}
	if arrival.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be positive", idx))
	}
	return nil
}

func (s *service) ListByCategorySize(ctx context.Context, category, size string) ([]VariantSummary, error) {
	cat, err := enums.ParseGarmentCategory(category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	sz, err := enums.ParseGarmentSize(size)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	variants, err := s.repo.ListByCategorySize(ctx, cat, sz)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock lines")
	}

	summaries := make([]VariantSummary, 0, len(variants))
	for _, v := range variants {
		summaries = append(summaries, variantToSummary(v))
	}
	return summaries, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*VariantList, error) {
	list, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}
	return list, nil
}

func (s *service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}

// CheckAvailability is the advisory stock check run before a gateway order
// is created. Each line must match its exact variant, video url and price
// included; quantities on other reels never pool in. Unavailable lines are
// an intake validation failure, not the settlement-time stock conflict:
// the authoritative check is the conditional decrement inside the
// settlement transaction.
func (s *service) CheckAvailability(ctx context.Context, lines []DecrementLine) error {
	for i, line := range lines {
		variants, err := s.repo.ListByCategorySize(ctx, line.Category, line.Size)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check stock availability")
		}
		available := 0
		for _, v := range variants {
			if v.VideoURL == line.VideoURL && v.Price.Equal(line.Price) {
				available = v.Quantity
				break
			}
		}
		if available < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: %s %s is out of stock", i, line.Category, line.Size)).
				WithDetails(map[string]string{
					"video_url": line.VideoURL,
					"category":  string(line.Category),
					"size":      string(line.Size),
				})
		}
	}
	return nil
}

// DecrementBatch draws down every line inside the caller's transaction.
// All lines must succeed; the first line that cannot be satisfied aborts
// the whole batch so the transaction rolls back untouched.
func DecrementBatch(ctx context.Context, repo Repository, lines []DecrementLine) (*BatchResult, error) {
	result := &BatchResult{Depleted: []models.Variant{}}
	for _, line := range lines {
		modified, err := repo.DecrementIfAvailable(ctx, line)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock line")
		}
		if modified == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s %s", line.Category, line.Size)).
				WithDetails(map[string]string{
					"video_url": line.VideoURL,
					"category":  string(line.Category),
					"size":      string(line.Size),
				})
		}
		result.Matched += modified
		result.Modified += modified
		zeroed, err := repo.FindDepleted(ctx, line)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check depleted stock")
		}
		result.Depleted = append(result.Depleted, zeroed...)
	}
	return result, nil
}
