package notifications

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/receipt-notifier/internal/domain"
	"github.com/bissquit/receipt-notifier/internal/upstream"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(repo *mockRepository, orders *mockOrders, payments *mockPayments, mailer *mockMailer) http.Handler {
	svc := NewService(repo, orders, payments, mailer)
	handler := NewHandler(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postSendReceipt(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send-receipt", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendReceiptEndpoint_Success(t *testing.T) {
	router := setupTestRouter(
		&mockRepository{},
		&mockOrders{order: testOrder()},
		&mockPayments{payment: &upstream.Payment{ID: "pay_1"}},
		&mockMailer{result: MailResult{OK: true}},
	)

	rec := postSendReceipt(t, router, `{"order_id":"ord_1","customer_email":"customer@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ReceiptResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ord_1", body.Data.OrderID)
	assert.Equal(t, domain.StatusSent, body.Data.Status)
	assert.NotEmpty(t, body.Data.NotificationID)
	assert.False(t, body.Data.SentAt.IsZero())
}

func TestSendReceiptEndpoint_InvalidJSON(t *testing.T) {
	router := setupTestRouter(&mockRepository{}, &mockOrders{}, &mockPayments{}, &mockMailer{})

	rec := postSendReceipt(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendReceiptEndpoint_Validation(t *testing.T) {
	router := setupTestRouter(&mockRepository{}, &mockOrders{}, &mockPayments{}, &mockMailer{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing order_id", body: `{"customer_email":"customer@example.com"}`},
		{name: "missing email", body: `{"order_id":"ord_1"}`},
		{name: "invalid email", body: `{"order_id":"ord_1","customer_email":"not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSendReceipt(t, router, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation error", body.Error.Message)
		})
	}
}

func TestSendReceiptEndpoint_OrderNotFound(t *testing.T) {
	router := setupTestRouter(&mockRepository{}, &mockOrders{}, &mockPayments{}, &mockMailer{})

	rec := postSendReceipt(t, router, `{"order_id":"ord_missing","customer_email":"customer@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "order not found")
}

func TestSendReceiptEndpoint_UpstreamUnavailable(t *testing.T) {
	router := setupTestRouter(
		&mockRepository{},
		&mockOrders{err: upstream.ErrUnavailable},
		&mockPayments{},
		&mockMailer{},
	)

	rec := postSendReceipt(t, router, `{"order_id":"ord_1","customer_email":"customer@example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream service unavailable")
}

func TestSendReceiptEndpoint_DeliveryFailure(t *testing.T) {
	router := setupTestRouter(
		&mockRepository{},
		&mockOrders{order: testOrder()},
		&mockPayments{payment: &upstream.Payment{ID: "pay_1"}},
		&mockMailer{result: MailResult{Diagnostic: "smtp down"}},
	)

	rec := postSendReceipt(t, router, `{"order_id":"ord_1","customer_email":"customer@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to send email")
}

func TestListNotificationsEndpoint(t *testing.T) {
	records := []domain.Notification{
		{ID: "notif_2", OrderID: "ord_1", Status: domain.StatusSent},
		{ID: "notif_1", OrderID: "ord_1", Status: domain.StatusFailed},
	}
	router := setupTestRouter(&mockRepository{records: records}, &mockOrders{}, &mockPayments{}, &mockMailer{})

	req := httptest.NewRequest(http.MethodGet, "/notifications/order/ord_1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data OrderNotifications `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ord_1", body.Data.OrderID)
	assert.Equal(t, 2, body.Data.Count)
	require.Len(t, body.Data.Notifications, 2)
	assert.Equal(t, "notif_2", body.Data.Notifications[0].ID)
}

func TestListNotificationsEndpoint_StoreFailure(t *testing.T) {
	repo := &mockRepository{listErr: assert.AnError}
	router := setupTestRouter(repo, &mockOrders{}, &mockPayments{}, &mockMailer{})

	req := httptest.NewRequest(http.MethodGet, "/notifications/order/ord_1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
}
