package notifications

import (
	"context"

	"github.com/bissquit/receipt-notifier/internal/pkg/ctxlog"
	"github.com/bissquit/receipt-notifier/internal/upstream"
)

// MailResult is the outcome of a receipt send attempt. Delivery failure is a
// normal, recordable business outcome: errors never cross this boundary, they
// are logged and converted to OK=false with a diagnostic.
type MailResult struct {
	OK         bool
	Diagnostic string
}

// EmailSender dispatches a rendered email over an external transport.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer renders and dispatches receipt emails.
type Mailer struct {
	renderer *Renderer
	sender   EmailSender
}

// NewMailer creates a mailer from a renderer and a transport.
func NewMailer(renderer *Renderer, sender EmailSender) *Mailer {
	return &Mailer{renderer: renderer, sender: sender}
}

// SendReceipt renders the receipt for an order (with payment details when
// present) and sends it to the customer. A nil payment renders a receipt
// without payment details.
func (m *Mailer) SendReceipt(ctx context.Context, to string, order *upstream.Order, payment *upstream.Payment) MailResult {
	log := ctxlog.FromContext(ctx)

	body, err := m.renderer.RenderReceipt(order, payment)
	if err != nil {
		log.Error("failed to render receipt", "order_id", order.ID, "error", err)
		return MailResult{Diagnostic: "render receipt: " + err.Error()}
	}

	subject := ReceiptSubject(order)
	if err := m.sender.Send(ctx, to, subject, body); err != nil {
		log.Error("failed to send receipt email", "order_id", order.ID, "error", err)
		return MailResult{Diagnostic: "send email: " + err.Error()}
	}

	log.Info("receipt email sent", "order_id", order.ID, "subject", subject)
	return MailResult{OK: true}
}
