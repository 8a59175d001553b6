package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrderItem is a single line item in an order.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is the order service's representation of a customer order.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	CustomerEmail   string      `json:"customer_email"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Currency        string      `json:"currency"`
	Status          string      `json:"status"`
	PaymentID       string      `json:"payment_id"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
}

type orderEnvelope struct {
	Data *Order `json:"data"`
}

// OrdersClient fetches orders from the order service.
type OrdersClient struct {
	client *resty.Client
}

// NewOrdersClient creates a client for the order service.
func NewOrdersClient(baseURL string) *OrdersClient {
	return &OrdersClient{client: newClient(baseURL)}
}

// FetchOrder retrieves an order by ID and unwraps the {data: ...} envelope.
// Returns (nil, nil) when the envelope carries no payload; the caller decides
// whether that means not found. Transport failures and non-success statuses
// wrap ErrUnavailable.
func (c *OrdersClient) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&orderEnvelope{}).
		SetPathParam("id", orderID).
		Get("/orders/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: order service: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: order service returned status %d", ErrUnavailable, resp.StatusCode())
	}

	envelope, ok := resp.Result().(*orderEnvelope)
	if !ok || envelope.Data == nil || envelope.Data.ID == "" {
		return nil, nil
	}
	return envelope.Data, nil
}
