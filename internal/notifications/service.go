package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/receipt-notifier/internal/domain"
	"github.com/bissquit/receipt-notifier/internal/pkg/ctxlog"
	"github.com/bissquit/receipt-notifier/internal/upstream"
)

// failedErrorMessage is the fixed diagnostic recorded on delivery failure.
const failedErrorMessage = "email send failed"

// OrderFetcher resolves orders from the order service.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderID string) (*upstream.Order, error)
}

// PaymentFetcher resolves payments from the payment service.
type PaymentFetcher interface {
	FetchPayment(ctx context.Context, paymentID string) (*upstream.Payment, error)
}

// ReceiptMailer renders and dispatches a receipt email, reporting the outcome
// as a value rather than an error.
type ReceiptMailer interface {
	SendReceipt(ctx context.Context, to string, order *upstream.Order, payment *upstream.Payment) MailResult
}

// ReceiptResult is the success payload of the send-receipt workflow.
type ReceiptResult struct {
	NotificationID string                    `json:"notification_id"`
	OrderID        string                    `json:"order_id"`
	Status         domain.NotificationStatus `json:"status"`
	SentAt         time.Time                 `json:"sent_at"`
}

// OrderNotifications is the payload of the notification listing.
type OrderNotifications struct {
	OrderID       string                `json:"order_id"`
	Notifications []domain.Notification `json:"notifications"`
	Count         int                   `json:"count"`
}

// Service implements the send-receipt workflow and notification queries.
type Service struct {
	repo     Repository
	orders   OrderFetcher
	payments PaymentFetcher
	mailer   ReceiptMailer
	now      func() time.Time
}

// NewService creates a new notifications service.
func NewService(repo Repository, orders OrderFetcher, payments PaymentFetcher, mailer ReceiptMailer) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		payments: payments,
		mailer:   mailer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SendReceipt runs the end-to-end workflow for one receipt:
// fetch order, best-effort fetch payment, create a pending record, send the
// email, finalize the record as sent or failed.
//
// The pending record is committed before the send attempt so every attempt is
// traceable even if the process dies mid-send. Payment enrichment is
// best-effort: a payment fetch failure is logged and the receipt goes out
// without payment details.
func (s *Service) SendReceipt(ctx context.Context, orderID, customerEmail string) (*ReceiptResult, error) {
	log := ctxlog.FromContext(ctx)
	log.Info("sending receipt", "order_id", orderID, "customer_email", customerEmail)

	order, err := s.orders.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	var payment *upstream.Payment
	if order.PaymentID != "" {
		payment, err = s.payments.FetchPayment(ctx, order.PaymentID)
		if err != nil {
			log.Warn("could not fetch payment details, sending receipt without them",
				"order_id", orderID,
				"payment_id", order.PaymentID,
				"error", err,
			)
			payment = nil
		}
	}

	draft := Draft{
		Type:          domain.NotificationTypeReceipt,
		CustomerEmail: customerEmail,
		OrderID:       orderID,
		Status:        domain.StatusPending,
	}
	if order.CustomerID != "" {
		draft.CustomerID = &order.CustomerID
	}

	notification, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	result := s.mailer.SendReceipt(ctx, customerEmail, order, payment)

	if !result.OK {
		receiptsFailed.Inc()

		errMsg := failedErrorMessage
		if err := s.repo.UpdateStatus(ctx, notification.ID, domain.StatusFailed, nil, &errMsg); err != nil {
			// The outcome is already determined; a failing update is a
			// persistence problem to log, not a new response.
			log.Error("failed to record delivery failure",
				"notification_id", notification.ID,
				"error", err,
			)
		}
		return nil, ErrDeliveryFailed
	}

	receiptsSent.Inc()

	sentAt := s.now()
	if err := s.repo.UpdateStatus(ctx, notification.ID, domain.StatusSent, &sentAt, nil); err != nil {
		log.Error("failed to record sent status",
			"notification_id", notification.ID,
			"error", err,
		)
	}

	return &ReceiptResult{
		NotificationID: notification.ID,
		OrderID:        orderID,
		Status:         domain.StatusSent,
		SentAt:         sentAt,
	}, nil
}

// ListByOrder returns all notifications recorded for an order, newest first.
func (s *Service) ListByOrder(ctx context.Context, orderID string) (*OrderNotifications, error) {
	notifications, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return &OrderNotifications{
		OrderID:       orderID,
		Notifications: notifications,
		Count:         len(notifications),
	}, nil
}
