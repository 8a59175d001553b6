package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/bissquit/receipt-notifier/internal/upstream"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const receiptTemplate = "receipt"

// Renderer renders receipt emails from templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":        titleCase,
		"upper":        strings.ToUpper,
		"lower":        strings.ToLower,
		"formatTime":   formatTime,
		"formatAmount": formatAmount,
	}

	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, name := range []string{receiptTemplate} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)

		content, err := templatesFS.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", filename, err)
		}

		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return r, nil
}

// receiptData is the template context for a receipt email. Payment is nil
// when payment details could not be fetched; the template renders a receipt
// without payment details in that case.
type receiptData struct {
	Order   *upstream.Order
	Payment *upstream.Payment
}

// RenderReceipt renders the receipt email body for an order.
// A nil payment is a supported path, not an error.
func (r *Renderer) RenderReceipt(order *upstream.Order, payment *upstream.Payment) (string, error) {
	tmpl, ok := r.templates[receiptTemplate]
	if !ok {
		return "", fmt.Errorf("template not found: %s", receiptTemplate)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, receiptData{Order: order, Payment: payment}); err != nil {
		return "", fmt.Errorf("execute template %s: %w", receiptTemplate, err)
	}

	return buf.String(), nil
}

// ReceiptSubject builds the email subject line for an order receipt.
func ReceiptSubject(order *upstream.Order) string {
	return fmt.Sprintf("Receipt for Order #%s", order.ID)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
