package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bissquit/receipt-notifier/internal/domain"
	"github.com/bissquit/receipt-notifier/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusUpdate struct {
	id           string
	status       domain.NotificationStatus
	sentAt       *time.Time
	errorMessage *string
}

// mockRepository implements Repository for testing.
type mockRepository struct {
	created   []Draft
	updates   []statusUpdate
	records   []domain.Notification
	createErr error
	updateErr error
	listErr   error
}

func (m *mockRepository) Create(_ context.Context, draft Draft) (*domain.Notification, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, draft)
	return &domain.Notification{
		ID:            "notif_00000000-0000-0000-0000-000000000001",
		Type:          draft.Type,
		CustomerEmail: draft.CustomerEmail,
		CustomerID:    draft.CustomerID,
		OrderID:       draft.OrderID,
		Status:        draft.Status,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id string, status domain.NotificationStatus, sentAt *time.Time, errorMessage *string) error {
	m.updates = append(m.updates, statusUpdate{id: id, status: status, sentAt: sentAt, errorMessage: errorMessage})
	return m.updateErr
}

func (m *mockRepository) ListByOrder(_ context.Context, _ string) ([]domain.Notification, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

// mockOrders implements OrderFetcher for testing.
type mockOrders struct {
	order *upstream.Order
	err   error
}

func (m *mockOrders) FetchOrder(_ context.Context, _ string) (*upstream.Order, error) {
	return m.order, m.err
}

// mockPayments implements PaymentFetcher for testing.
type mockPayments struct {
	payment *upstream.Payment
	err     error
	calls   int
}

func (m *mockPayments) FetchPayment(_ context.Context, _ string) (*upstream.Payment, error) {
	m.calls++
	return m.payment, m.err
}

// mockMailer implements ReceiptMailer for testing.
type mockMailer struct {
	result     MailResult
	calls      int
	gotTo      string
	gotOrder   *upstream.Order
	gotPayment *upstream.Payment
}

func (m *mockMailer) SendReceipt(_ context.Context, to string, order *upstream.Order, payment *upstream.Payment) MailResult {
	m.calls++
	m.gotTo = to
	m.gotOrder = order
	m.gotPayment = payment
	return m.result
}

func testOrder() *upstream.Order {
	return &upstream.Order{
		ID:          "ord_1",
		CustomerID:  "cust_1",
		PaymentID:   "pay_1",
		TotalAmount: 42.50,
		Currency:    "USD",
	}
}

func TestSendReceipt_Success(t *testing.T) {
	repo := &mockRepository{}
	payments := &mockPayments{payment: &upstream.Payment{ID: "pay_1", Amount: 42.50}}
	mailer := &mockMailer{result: MailResult{OK: true}}

	svc := NewService(repo, &mockOrders{order: testOrder()}, payments, mailer)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	result, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ord_1", result.OrderID)
	assert.Equal(t, domain.StatusSent, result.Status)
	assert.Equal(t, now, result.SentAt)
	assert.NotEmpty(t, result.NotificationID)

	// Record created pending with defaults before the send attempt
	require.Len(t, repo.created, 1)
	draft := repo.created[0]
	assert.Equal(t, domain.NotificationTypeReceipt, draft.Type)
	assert.Equal(t, domain.StatusPending, draft.Status)
	assert.Equal(t, "customer@example.com", draft.CustomerEmail)
	assert.Equal(t, "ord_1", draft.OrderID)
	require.NotNil(t, draft.CustomerID)
	assert.Equal(t, "cust_1", *draft.CustomerID)

	// Finalized exactly once as sent with sent_at, no error message
	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, domain.StatusSent, update.status)
	require.NotNil(t, update.sentAt)
	assert.Equal(t, now, *update.sentAt)
	assert.Nil(t, update.errorMessage)

	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "customer@example.com", mailer.gotTo)
	require.NotNil(t, mailer.gotPayment)
	assert.Equal(t, "pay_1", mailer.gotPayment.ID)
}

func TestSendReceipt_MailerFailure(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{result: MailResult{Diagnostic: "smtp: connection refused"}}

	svc := NewService(repo, &mockOrders{order: testOrder()}, &mockPayments{payment: &upstream.Payment{ID: "pay_1"}}, mailer)

	result, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Nil(t, result)

	// Finalized exactly once as failed with an error message, no sent_at
	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, domain.StatusFailed, update.status)
	assert.Nil(t, update.sentAt)
	require.NotNil(t, update.errorMessage)
	assert.Equal(t, "email send failed", *update.errorMessage)
}

func TestSendReceipt_PaymentFetchFailureIsNonFatal(t *testing.T) {
	repo := &mockRepository{}
	payments := &mockPayments{err: upstream.ErrUnavailable}
	mailer := &mockMailer{result: MailResult{OK: true}}

	svc := NewService(repo, &mockOrders{order: testOrder()}, payments, mailer)

	result, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, result.Status)

	// Receipt went out without payment details
	assert.Equal(t, 1, payments.calls)
	assert.Equal(t, 1, mailer.calls)
	assert.Nil(t, mailer.gotPayment)
}

func TestSendReceipt_NoPaymentReference(t *testing.T) {
	order := testOrder()
	order.PaymentID = ""

	repo := &mockRepository{}
	payments := &mockPayments{}
	mailer := &mockMailer{result: MailResult{OK: true}}

	svc := NewService(repo, &mockOrders{order: order}, payments, mailer)

	_, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.NoError(t, err)

	assert.Equal(t, 0, payments.calls)
	assert.Nil(t, mailer.gotPayment)
}

func TestSendReceipt_OrderNotFound(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{}

	svc := NewService(repo, &mockOrders{}, &mockPayments{}, mailer)

	_, err := svc.SendReceipt(context.Background(), "ord_missing", "customer@example.com")
	require.ErrorIs(t, err, ErrOrderNotFound)

	// Workflow aborted before any record was created
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updates)
	assert.Equal(t, 0, mailer.calls)
}

func TestSendReceipt_OrderServiceUnavailable(t *testing.T) {
	repo := &mockRepository{}
	orders := &mockOrders{err: upstream.ErrUnavailable}

	svc := NewService(repo, orders, &mockPayments{}, &mockMailer{})

	_, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.ErrorIs(t, err, upstream.ErrUnavailable)

	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updates)
}

func TestSendReceipt_CreateFailureAbortsBeforeSend(t *testing.T) {
	repo := &mockRepository{createErr: errors.New("connection reset")}
	mailer := &mockMailer{result: MailResult{OK: true}}

	svc := NewService(repo, &mockOrders{order: testOrder()}, &mockPayments{payment: &upstream.Payment{ID: "pay_1"}}, mailer)

	_, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDeliveryFailed)

	// Record-then-send: no email without an audit record
	assert.Equal(t, 0, mailer.calls)
	assert.Empty(t, repo.updates)
}

func TestSendReceipt_FinalUpdateFailureDoesNotChangeOutcome(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		repo := &mockRepository{updateErr: errors.New("connection reset")}
		svc := NewService(repo, &mockOrders{order: testOrder()}, &mockPayments{payment: &upstream.Payment{ID: "pay_1"}}, &mockMailer{result: MailResult{OK: true}})

		result, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSent, result.Status)
	})

	t.Run("failed", func(t *testing.T) {
		repo := &mockRepository{updateErr: errors.New("connection reset")}
		svc := NewService(repo, &mockOrders{order: testOrder()}, &mockPayments{payment: &upstream.Payment{ID: "pay_1"}}, &mockMailer{})

		_, err := svc.SendReceipt(context.Background(), "ord_1", "customer@example.com")
		require.ErrorIs(t, err, ErrDeliveryFailed)
	})
}

func TestListByOrder(t *testing.T) {
	records := []domain.Notification{
		{ID: "notif_b", OrderID: "ord_1"},
		{ID: "notif_a", OrderID: "ord_1"},
	}
	repo := &mockRepository{records: records}

	svc := NewService(repo, &mockOrders{}, &mockPayments{}, &mockMailer{})

	result, err := svc.ListByOrder(context.Background(), "ord_1")
	require.NoError(t, err)
	assert.Equal(t, "ord_1", result.OrderID)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, records, result.Notifications)
}

func TestListByOrder_Empty(t *testing.T) {
	repo := &mockRepository{records: []domain.Notification{}}
	svc := NewService(repo, &mockOrders{}, &mockPayments{}, &mockMailer{})

	result, err := svc.ListByOrder(context.Background(), "ord_none")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Notifications)
}
