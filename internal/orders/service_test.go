package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/pagination"
)

type stubOrderRepo struct {
	byID      map[uuid.UUID]*models.Order
	byGateway map[string]*models.Order
	listErr   error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byID:      map[uuid.UUID]*models.Order{},
		byGateway: map[string]*models.Order{},
	}
}

func (s *stubOrderRepo) add(order *models.Order) {
	s.byID[order.ID] = order
	s.byGateway[order.GatewayOrderID] = order
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.add(order)
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	if order, ok := s.byGateway[gatewayOrderID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error) {
	order, ok := s.byGateway[gatewayOrderID]
	if !ok || order.Status == enums.OrderStatusPaid {
		return 0, nil
	}
	order.Status = enums.OrderStatusPaid
	order.PaymentID = &paymentID
	return 1, nil
}

func (s *stubOrderRepo) MarkFailed(ctx context.Context, gatewayOrderID string) (int64, error) {
	order, ok := s.byGateway[gatewayOrderID]
	if !ok || order.Status != enums.OrderStatusCreated {
		return 0, nil
	}
	order.Status = enums.OrderStatusFailed
	return 1, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	list := &OrderList{}
	for _, order := range s.byID {
		if order.UserID != nil && *order.UserID == userID {
			list.Orders = append(list.Orders, OrderSummary{ID: order.ID, Status: order.Status})
		}
	}
	return list, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	list := &OrderList{}
	for _, order := range s.byID {
		list.Orders = append(list.Orders, OrderSummary{ID: order.ID, Status: order.Status})
	}
	return list, nil
}

func TestGetOrder(t *testing.T) {
	repo := newStubOrderRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	order := &models.Order{
		ID:             uuid.New(),
		GatewayOrderID: "order_abc",
		AmountPaise:    99900,
		Status:         enums.OrderStatusCreated,
	}
	repo.add(order)

	detail, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if detail.GatewayOrderID != "order_abc" {
		t.Fatalf("unexpected detail %+v", detail)
	}

	_, err = svc.GetOrder(ctx, uuid.New())
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := svc.GetOrder(ctx, uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil id")
	}
}

func TestGetByGatewayOrderID(t *testing.T) {
	repo := newStubOrderRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	repo.add(&models.Order{
		ID:             uuid.New(),
		GatewayOrderID: "order_xyz",
		Status:         enums.OrderStatusPaid,
	})

	detail, err := svc.GetByGatewayOrderID(ctx, "order_xyz")
	if err != nil {
		t.Fatalf("get by gateway id: %v", err)
	}
	if detail.Status != enums.OrderStatusPaid {
		t.Fatalf("unexpected status %s", detail.Status)
	}

	if _, err := svc.GetByGatewayOrderID(ctx, ""); err == nil {
		t.Fatal("expected validation error for empty id")
	}
}

func TestListUserOrdersRequiresUser(t *testing.T) {
	svc, _ := NewService(newStubOrderRepo())
	if _, err := svc.ListUserOrders(context.Background(), uuid.Nil, pagination.Params{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestListAllOrdersWrapsRepoError(t *testing.T) {
	repo := newStubOrderRepo()
	repo.listErr = errors.New("connection reset")
	svc, _ := NewService(repo)

	_, err := svc.ListAllOrders(context.Background(), pagination.Params{})
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
