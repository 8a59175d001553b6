package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/receipt-notifier/internal/pkg/httputil"
	"github.com/bissquit/receipt-notifier/internal/upstream"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
	{Error: upstream.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "upstream service unavailable"},
	{Error: ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send email"},
}

// Handler handles HTTP requests for the notifications module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new notifications handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers notification routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send-receipt", h.SendReceipt)
	r.Get("/notifications/order/{orderID}", h.ListByOrder)
}

// SendReceiptRequest represents the request body for sending a receipt.
type SendReceiptRequest struct {
	OrderID       string `json:"order_id" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
}

// SendReceipt handles POST /send-receipt.
func (h *Handler) SendReceipt(w http.ResponseWriter, r *http.Request) {
	var req SendReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.SendReceipt(r.Context(), req.OrderID, req.CustomerEmail)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, result)
}

// ListByOrder handles GET /notifications/order/{orderID}.
func (h *Handler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	result, err := h.service.ListByOrder(r.Context(), orderID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, result)
}
