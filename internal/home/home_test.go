package home

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
)

type stubHomeRepo struct {
	revisions []models.HomeText
}

func (s *stubHomeRepo) Create(ctx context.Context, text *models.HomeText) error {
	s.revisions = append(s.revisions, *text)
	return nil
}

func (s *stubHomeRepo) Latest(ctx context.Context) (*models.HomeText, error) {
	if len(s.revisions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := s.revisions[len(s.revisions)-1]
	return &latest, nil
}

func TestUpdateAndLatest(t *testing.T) {
	repo := &stubHomeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.Update(ctx, UpdateRequest{Heading: "Festive Drop", Subtext: "New kurtas in"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Update(ctx, UpdateRequest{Heading: "Monsoon Sale"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Heading != "Monsoon Sale" {
		t.Fatalf("expected newest revision, got %q", latest.Heading)
	}
}

func TestLatestEmpty(t *testing.T) {
	svc, err := NewService(&stubHomeRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Latest(context.Background())
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, err := NewService(&stubHomeRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Update(context.Background(), UpdateRequest{Heading: "  "})
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
