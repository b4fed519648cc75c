package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvkatara/threadreel-backend/api/middleware"
	"github.com/dhruvkatara/threadreel-backend/internal/checkout"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/internal/settlement"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
)

type stubCheckoutService struct {
	result    *checkout.CheckoutResult
	err       error
	lastInput checkout.CreateOrderInput
	calls     int
}

func (s *stubCheckoutService) CreateOrder(ctx context.Context, input checkout.CreateOrderInput) (*checkout.CheckoutResult, error) {
	s.calls++
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubSettlementService struct {
	result *settlement.ConfirmResult
	err    error
	calls  int
}

func (s *stubSettlementService) Confirm(ctx context.Context, input settlement.ConfirmInput) (*settlement.ConfirmResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func checkoutBody() string {
	return `{
		"items": [{
			"video_url": "https://cdn.threadreel.in/reels/denim.mp4",
			"category": "SHIRTS",
			"size": "M",
			"price": "1499.00",
			"quantity": 2
		}],
		"shipping_address": {
			"name": "Asha Rao",
			"email": "asha@example.com",
			"street": "14 MG Road",
			"city": "Bengaluru",
			"state": "KA",
			"pincode": "560001",
			"phone": "+919900112233"
		}
	}`
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), uuid.New().String())
	return req.WithContext(ctx)
}

func TestCreatePaymentOrderSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{result: &checkout.CheckoutResult{
		OrderID:        uuid.New(),
		GatewayOrderID: "order_Mz6T1",
		AmountPaise:    299800,
		Currency:       "INR",
		GatewayKeyID:   "rzp_test_key",
	}}

	rec := httptest.NewRecorder()
	CreatePaymentOrder(svc, nil)(rec, authedRequest(http.MethodPost, "/api/payment/create-order", checkoutBody()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("service calls = %d, want 1", svc.calls)
	}
	if svc.lastInput.UserID == nil {
		t.Fatal("expected user id from context to reach the service")
	}
	if got := svc.lastInput.Items[0].Price; !got.Equal(decimal.RequireFromString("1499.00")) {
		t.Fatalf("item price = %s, want 1499.00", got)
	}

	var envelope struct {
		Data checkout.CheckoutResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.GatewayOrderID != "order_Mz6T1" {
		t.Fatalf("gateway order id = %q", envelope.Data.GatewayOrderID)
	}
}

func TestCreatePaymentOrderRequiresAuth(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", strings.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	CreatePaymentOrder(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if svc.calls != 0 {
		t.Fatalf("service calls = %d, want 0", svc.calls)
	}
}

func TestCreatePaymentOrderRejectsBadBody(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	rec := httptest.NewRecorder()
	CreatePaymentOrder(svc, nil)(rec, authedRequest(http.MethodPost, "/api/payment/create-order", `{"items": []}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Fatalf("service calls = %d, want 0", svc.calls)
	}
}

func TestConfirmPaymentSuccess(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	paymentID := "pay_29QQoUBi66xm2f"
	svc := &stubSettlementService{result: &settlement.ConfirmResult{
		OrderID:        orderID,
		GatewayOrderID: "order_Mz6T1",
		Status:         enums.OrderStatusPaid,
		Order: &orders.OrderDetail{
			ID:             orderID,
			GatewayOrderID: "order_Mz6T1",
			PaymentID:      &paymentID,
			Status:         enums.OrderStatusPaid,
		},
		InventoryUpdate: settlement.InventoryUpdate{Matched: 1, Modified: 1},
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/payment/confirm",
		strings.NewReader(`{"order_id":"order_Mz6T1","payment_id":"pay_29QQoUBi66xm2f"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ConfirmPayment(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var envelope struct {
		Data settlement.ConfirmResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID || envelope.Data.Status != enums.OrderStatusPaid {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
	if envelope.Data.InventoryUpdate.Matched != 1 || envelope.Data.InventoryUpdate.Modified != 1 {
		t.Fatalf("expected inventory update in response, got %+v", envelope.Data.InventoryUpdate)
	}
	if envelope.Data.Order == nil || envelope.Data.Order.PaymentID == nil || *envelope.Data.Order.PaymentID != paymentID {
		t.Fatalf("expected the settled order in the response, got %+v", envelope.Data.Order)
	}
}

func TestConfirmPaymentSurfacesStockConflict(t *testing.T) {
	t.Parallel()

	svc := &stubSettlementService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"category": "SHIRTS", "size": "M"})}

	req := httptest.NewRequest(http.MethodPost, "/api/payment/confirm",
		strings.NewReader(`{"order_id":"order_Mz6T1","payment_id":"pay_29QQoUBi66xm2f"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ConfirmPayment(svc, nil)(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("error code = %q", envelope.Error.Code)
	}
	if envelope.Error.Details["category"] != "SHIRTS" {
		t.Fatalf("details = %v", envelope.Error.Details)
	}
}

func TestConfirmPaymentRejectsMissingFields(t *testing.T) {
	t.Parallel()

	svc := &stubSettlementService{}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/confirm", strings.NewReader(`{"order_id":"order_Mz6T1"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ConfirmPayment(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Fatalf("service calls = %d, want 0", svc.calls)
	}
}
