// Package domain contains core domain models.
package domain

import "time"

// NotificationStatus represents the delivery lifecycle of a notification.
type NotificationStatus string

const (
	// StatusPending means the record was created but no send attempt finished yet.
	StatusPending NotificationStatus = "pending"
	// StatusSent means the receipt email was dispatched successfully.
	StatusSent NotificationStatus = "sent"
	// StatusFailed means the send attempt failed.
	StatusFailed NotificationStatus = "failed"
)

// NotificationTypeReceipt is the default notification category.
const NotificationTypeReceipt = "receipt"

// Notification is the persisted audit record of one receipt delivery attempt.
// A record is created as pending and transitions exactly once to sent or
// failed. Exactly one of SentAt or ErrorMessage is set once it leaves pending.
type Notification struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	CustomerEmail string             `json:"customer_email"`
	CustomerID    *string            `json:"customer_id"`
	OrderID       string             `json:"order_id"`
	Status        NotificationStatus `json:"status"`
	SentAt        *time.Time         `json:"sent_at"`
	ErrorMessage  *string            `json:"error_message"`
	CreatedAt     time.Time          `json:"created_at"`
}
