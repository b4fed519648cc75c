package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/dhruvkatara/threadreel-backend/pkg/config"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
)

// GatewayOrder is the subset of the Razorpay order we keep.
type GatewayOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
}

// Gateway creates payment orders upstream. Swappable in tests.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error)
}

// Client wraps the Razorpay SDK client.
type Client struct {
	api   *razorpay.Client
	keyID string
}

// NewClient initializes the Razorpay SDK once with the configured key pair.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	api := razorpay.NewClient(keyID, keySecret)
	if cfg.Timeout > 0 {
		api.SetTimeout(int16(cfg.Timeout.Seconds()))
	}

	if logg != nil {
		logg.Info(ctx, "razorpay client initialized")
	}

	return &Client{api: api, keyID: keyID}, nil
}

// KeyID returns the public key id, which the storefront needs to open checkout.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// CreateOrder registers a payment order upstream and returns its handle.
// Amounts are in paise per Razorpay's API contract.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	if amountPaise <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amountPaise)
	}
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	order, err := parseOrder(body)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func parseOrder(body map[string]interface{}) (*GatewayOrder, error) {
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order response missing id: %v", body)
	}

	order := &GatewayOrder{ID: id}
	if amount, ok := body["amount"].(float64); ok {
		order.AmountPaise = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if receipt, ok := body["receipt"].(string); ok {
		order.Receipt = receipt
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}
