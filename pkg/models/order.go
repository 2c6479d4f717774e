package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OrderStatusPaid is the only status the ledger writes today. The column
	// is a varchar so new statuses can appear without a migration.
	OrderStatusPaid = "paid"

	// AnonymousUser marks orders placed without a contact address.
	AnonymousUser = "guest_user"
)

// Order is an immutable, append-only ledger record. The ledger generates ID,
// PaymentID and CreatedAt; callers never supply them. There is no update or
// delete path for orders anywhere in this codebase.
type Order struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"order_id"`
	UserID      string          `gorm:"type:varchar(100);not null;index" json:"user_id"`
	Items       string          `gorm:"type:text" json:"-"` // JSON-encoded []LineItem
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);default:'paid'" json:"status"`
	PaymentID   string          `gorm:"type:varchar(40);uniqueIndex" json:"payment_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

// LineItem is one product+quantity+price entry within an order.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// LineItems decodes the JSON items column.
func (o *Order) LineItems() ([]LineItem, error) {
	if o.Items == "" {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetLineItems encodes items into the JSON column.
func (o *Order) SetLineItems(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.Items = string(data)
	return nil
}
