package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Payment is the payment service's representation of a processed payment.
type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type paymentEnvelope struct {
	Data *Payment `json:"data"`
}

// PaymentsClient fetches payments from the payment service.
type PaymentsClient struct {
	client *resty.Client
}

// NewPaymentsClient creates a client for the payment service.
func NewPaymentsClient(baseURL string) *PaymentsClient {
	return &PaymentsClient{client: newClient(baseURL)}
}

// FetchPayment retrieves a payment by ID and unwraps the {data: ...} envelope.
// Same contract as OrdersClient.FetchOrder: empty envelope yields (nil, nil),
// transport and status failures wrap ErrUnavailable.
func (c *PaymentsClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&paymentEnvelope{}).
		SetPathParam("id", paymentID).
		Get("/payments/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: payment service: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: payment service returned status %d", ErrUnavailable, resp.StatusCode())
	}

	envelope, ok := resp.Result().(*paymentEnvelope)
	if !ok || envelope.Data == nil || envelope.Data.ID == "" {
		return nil, nil
	}
	return envelope.Data, nil
}
