// Package notifications implements the receipt notification workflow:
// aggregating order and payment data, sending the receipt email and
// persisting the audit record of each attempt.
package notifications

import (
	"context"
	"time"

	"github.com/bissquit/receipt-notifier/internal/domain"
)

// Draft holds caller-supplied fields for a new notification record.
// Empty Type and Status receive defaults on create.
type Draft struct {
	Type          string
	CustomerEmail string
	CustomerID    *string
	OrderID       string
	Status        domain.NotificationStatus
}

// Repository defines the interface for notification persistence.
// Every write is all-or-nothing: a failed call leaves no partial record.
type Repository interface {
	// Create assigns id and created_at, applies defaults and persists the
	// record atomically, returning the full persisted row.
	Create(ctx context.Context, draft Draft) (*domain.Notification, error)

	// UpdateStatus overwrites status, sent_at and error_message for the given
	// id. Returns ErrNotificationNotFound when no row matches.
	UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus, sentAt *time.Time, errorMessage *string) error

	// ListByOrder returns all notifications for an order, newest created_at
	// first. An order with no notifications yields an empty slice, not an error.
	ListByOrder(ctx context.Context, orderID string) ([]domain.Notification, error)
}
