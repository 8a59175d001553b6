// Package postgres provides the PostgreSQL implementation of the
// notifications repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/receipt-notifier/internal/domain"
	"github.com/bissquit/receipt-notifier/internal/notifications"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements notifications.Repository using PostgreSQL.
// Each operation is a single statement, so writes are all-or-nothing.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification record. The id and created_at are
// assigned here; empty type and status receive their defaults.
func (r *Repository) Create(ctx context.Context, draft notifications.Draft) (*domain.Notification, error) {
	notification := &domain.Notification{
		ID:            "notif_" + uuid.NewString(),
		Type:          draft.Type,
		CustomerEmail: draft.CustomerEmail,
		CustomerID:    draft.CustomerID,
		OrderID:       draft.OrderID,
		Status:        draft.Status,
	}
	if notification.Type == "" {
		notification.Type = domain.NotificationTypeReceipt
	}
	if notification.Status == "" {
		notification.Status = domain.StatusPending
	}

	query := `
		INSERT INTO notifications (id, type, customer_email, customer_id, order_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		notification.ID,
		notification.Type,
		notification.CustomerEmail,
		notification.CustomerID,
		notification.OrderID,
		notification.Status,
	).Scan(&notification.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	return notification, nil
}

// UpdateStatus overwrites status, sent_at and error_message for a record.
// Returns ErrNotificationNotFound when no row matches the id.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus, sentAt *time.Time, errorMessage *string) error {
	query := `
		UPDATE notifications
		SET status = $2, sent_at = $3, error_message = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, id, status, sentAt, errorMessage)
	if err != nil {
		return fmt.Errorf("update notification status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}

// ListByOrder retrieves all notifications for an order, newest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]domain.Notification, error) {
	query := `
		SELECT id, type, customer_email, customer_id, order_id, status, sent_at, error_message, created_at
		FROM notifications
		WHERE order_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.CustomerEmail,
			&n.CustomerID,
			&n.OrderID,
			&n.Status,
			&n.SentAt,
			&n.ErrorMessage,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return records, nil
}
