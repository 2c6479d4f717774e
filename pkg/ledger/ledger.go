// Package ledger persists immutable order records.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/salesmate/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger appends order records. There is deliberately no update or delete:
// an order is final the moment Create returns.
type Ledger interface {
	Create(ctx context.Context, owner string, items []models.LineItem, total decimal.Decimal) (*models.Order, error)
}

// GormLedger writes orders to MySQL with a single insert, so a write either
// lands fully or not at all. No retries happen here.
type GormLedger struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormLedger(db *gorm.DB, logger *zap.Logger) (*GormLedger, error) {
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders: %w", err)
	}
	return &GormLedger{db: db, logger: logger}, nil
}

func (l *GormLedger) Create(ctx context.Context, owner string, items []models.LineItem, total decimal.Decimal) (*models.Order, error) {
	order := &models.Order{
		ID:          NewOrderID(),
		UserID:      owner,
		TotalAmount: total,
		Status:      models.OrderStatusPaid,
		PaymentID:   NewPaymentID(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := order.SetLineItems(items); err != nil {
		return nil, fmt.Errorf("failed to serialize items: %w", err)
	}

	if err := l.db.WithContext(ctx).Create(order).Error; err != nil {
		l.logger.Error("Failed to create order",
			zap.String("user_id", owner),
			zap.String("total_amount", total.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// NewOrderID returns a random 128-bit identifier. Order ids are exposed to
// shoppers as receipt references, so they must not leak ordering or volume.
func NewOrderID() string {
	return uuid.NewString()
}

// NewPaymentID returns an opaque payment reference, distinct from the order
// id, in the form pay_<32 hex chars>.
func NewPaymentID() string {
	return "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
