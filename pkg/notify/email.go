package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/example/salesmate/pkg/config"
	"github.com/example/salesmate/pkg/models"
	"go.uber.org/zap"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f9f9f9; }
  .header h1 { margin: 0; color: #2c3e50; text-align: center; }
  .order-details { margin-bottom: 20px; background: white; padding: 15px; border-radius: 4px; }
  .items-table { width: 100%; border-collapse: collapse; margin-bottom: 20px; background: white; }
  .items-table th { padding: 10px; border-bottom: 2px solid #2c3e50; text-align: left; }
  .items-table td { padding: 10px; border-bottom: 1px solid #ddd; }
  .total { text-align: right; font-size: 18px; font-weight: bold; margin-top: 10px; }
  .footer { text-align: center; font-size: 12px; color: #777; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>Order Confirmation</h1></div>
  <p>Dear Customer,</p>
  <p>Thank you for your purchase via SalesMate! Here are your order details:</p>
  <div class="order-details">
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Payment ID:</strong> {{.PaymentID}}</p>
    <p><strong>Date:</strong> {{.CreatedAt}}</p>
  </div>
  <table class="items-table">
    <thead><tr><th>Item</th><th>Qty</th><th>Price</th></tr></thead>
    <tbody>
    {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>${{.Price}}</td></tr>
    {{end}}</tbody>
  </table>
  <div class="total">Total Amount: ${{.Total}}</div>
  <div class="footer">
    <p>SalesMate Fashion Store</p>
    <p>If you have any questions, please contact support.</p>
  </div>
</div>
</body>
</html>
`

type receiptData struct {
	OrderID   string
	PaymentID string
	CreatedAt string
	Total     string
	Items     []receiptItem
}

type receiptItem struct {
	Name     string
	Quantity int
	Price    string
}

// Mailer sends HTML receipts over SMTP. With no SMTP host or username
// configured it logs the receipt instead of sending, so local runs still
// complete purchases.
type Mailer struct {
	config *config.SMTPConfig
	tmpl   *template.Template
	logger *zap.Logger
}

func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) (*Mailer, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return &Mailer{config: cfg, tmpl: tmpl, logger: logger}, nil
}

func (m *Mailer) Send(ctx context.Context, address string, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Order Confirmation - Order #%s", order.ID)
	body, err := m.Render(order)
	if err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}

	if m.config.Host == "" || m.config.Username == "" {
		m.logger.Info("SMTP not configured, logging receipt instead",
			zap.String("to", address),
			zap.String("subject", subject))
		return nil
	}

	from := m.config.From
	if from == "" {
		from = m.config.Username
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", address)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := smtp.SendMail(addr, auth, from, []string{address}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	m.logger.Info("Receipt sent", zap.String("to", address), zap.String("order_id", order.ID))
	return nil
}

// Render produces the HTML receipt body for an order.
func (m *Mailer) Render(order *models.Order) (string, error) {
	items, err := order.LineItems()
	if err != nil {
		return "", fmt.Errorf("failed to decode line items: %w", err)
	}

	data := receiptData{
		OrderID:   order.ID,
		PaymentID: order.PaymentID,
		CreatedAt: order.CreatedAt.Format("2006-01-02 15:04:05 UTC"),
		Total:     order.TotalAmount.StringFixed(2),
	}
	for _, item := range items {
		data.Items = append(data.Items, receiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
