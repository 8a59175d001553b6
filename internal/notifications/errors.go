package notifications

import "errors"

var (
	// ErrOrderNotFound means the order service answered but returned no order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDeliveryFailed means the receipt email could not be sent. The
	// notification record is finalized as failed before this is returned.
	ErrDeliveryFailed = errors.New("failed to send email")

	// ErrNotificationNotFound means a status update matched no record.
	ErrNotificationNotFound = errors.New("notification not found")
)
