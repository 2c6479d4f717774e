package notify

import (
	"context"
	"testing"
	"time"

	"github.com/example/salesmate/pkg/config"
	"github.com/example/salesmate/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOrder(t *testing.T) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:          "0d3f3f6a-1111-4222-8333-abcdefabcdef",
		UserID:      "a@b.com",
		TotalAmount: decimal.New(5000, -2),
		Status:      models.OrderStatusPaid,
		PaymentID:   "pay_0123456789abcdef0123456789abcdef",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, order.SetLineItems([]models.LineItem{
		{Name: "Classic White T-Shirt", Quantity: 2, Price: decimal.New(2500, -2)},
	}))
	return order
}

func TestReceiptRender(t *testing.T) {
	mailer, err := NewMailer(&config.SMTPConfig{}, zap.NewNop())
	require.NoError(t, err)

	body, err := mailer.Render(testOrder(t))
	require.NoError(t, err)

	assert.Contains(t, body, "0d3f3f6a-1111-4222-8333-abcdefabcdef")
	assert.Contains(t, body, "pay_0123456789abcdef0123456789abcdef")
	assert.Contains(t, body, "Classic White T-Shirt")
	assert.Contains(t, body, "$25.00")
	assert.Contains(t, body, "Total Amount: $50.00")
	assert.Contains(t, body, "2025-06-01 12:00:00 UTC")
}

func TestSendLogsOnlyWithoutSMTPConfig(t *testing.T) {
	mailer, err := NewMailer(&config.SMTPConfig{}, zap.NewNop())
	require.NoError(t, err)

	// No SMTP host configured: the mailer logs the receipt and reports
	// success so local purchases still complete.
	require.NoError(t, mailer.Send(context.Background(), "a@b.com", testOrder(t)))
}

func TestSendHonorsCancelledContext(t *testing.T) {
	mailer, err := NewMailer(&config.SMTPConfig{}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, mailer.Send(ctx, "a@b.com", testOrder(t)))
}
