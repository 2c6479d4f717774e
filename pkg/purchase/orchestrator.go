// Package purchase implements the order-placement transaction path:
// catalog lookup, stock and price validation, the ledger write, and the
// best-effort receipt notification.
package purchase

import (
	"context"
	"fmt"

	"github.com/example/salesmate/pkg/audit"
	"github.com/example/salesmate/pkg/catalog"
	"github.com/example/salesmate/pkg/ledger"
	"github.com/example/salesmate/pkg/models"
	"github.com/example/salesmate/pkg/notify"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Request is a transient purchase intent. ContactEmail routes the receipt
// only; it is not an identity claim.
type Request struct {
	ProductName  string
	Quantity     int
	ContactEmail string
}

// NotificationState reports what happened to the receipt.
type NotificationState string

const (
	NotificationSent    NotificationState = "sent"
	NotificationFailed  NotificationState = "failed"
	NotificationSkipped NotificationState = "skipped"
)

// Outcome summarizes a completed purchase.
type Outcome struct {
	OrderID      string            `json:"order_id"`
	PaymentID    string            `json:"payment_id"`
	Total        decimal.Decimal   `json:"total_amount"`
	Notification NotificationState `json:"notification"`
	Message      string            `json:"message"`
}

// Orchestrator runs the purchase steps sequentially. The catalog read and
// ledger write are independent calls with no lock across them: two
// concurrent purchases can both pass the stock check against a stale count.
// Stock is checked but never decremented; closing that gap needs an atomic
// decrement-and-check in the catalog store.
type Orchestrator struct {
	catalog  catalog.Store
	ledger   ledger.Ledger
	notifier notify.Notifier
	trail    *audit.Trail
	logger   *zap.Logger
}

// New wires the orchestrator. trail may be nil to disable audit writes.
func New(c catalog.Store, l ledger.Ledger, n notify.Notifier, trail *audit.Trail, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{catalog: c, ledger: l, notifier: n, trail: trail, logger: logger}
}

// Buy validates a purchase intent against live inventory, records the order
// and fires the receipt. Once the ledger write succeeds the purchase is
// final: notification failures only annotate the outcome.
func (o *Orchestrator) Buy(ctx context.Context, req Request) (*Outcome, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// Ambiguous free-text matches resolve to the first candidate in the
	// store's natural order.
	products, err := o.catalog.Find(ctx, catalog.Filter{Query: req.ProductName}, 1)
	if err != nil {
		o.logger.Error("Catalog lookup failed",
			zap.String("product_name", req.ProductName),
			zap.Error(err))
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if len(products) == 0 {
		return nil, &ProductNotFoundError{Name: req.ProductName}
	}
	product := products[0]

	if product.Stock < req.Quantity {
		return nil, &InsufficientStockError{
			Product:   product.Name,
			Requested: req.Quantity,
			Available: product.Stock,
		}
	}

	total := product.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))

	owner := req.ContactEmail
	if owner == "" {
		owner = models.AnonymousUser
	}
	items := []models.LineItem{{
		Name:     product.Name,
		Quantity: req.Quantity,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	}}

	order, err := o.ledger.Create(ctx, owner, items, total)
	if err != nil {
		o.logger.Error("Ledger write failed",
			zap.String("user_id", owner),
			zap.String("product_name", product.Name),
			zap.Int("quantity", req.Quantity),
			zap.String("total_amount", total.String()),
			zap.Error(err))
		return nil, &LedgerWriteError{Err: err}
	}

	o.recordAudit(order)

	outcome := &Outcome{
		OrderID:   order.ID,
		PaymentID: order.PaymentID,
		Total:     total,
	}

	var note string
	if req.ContactEmail == "" {
		outcome.Notification = NotificationSkipped
		note = "No email provided for notification."
	} else if err := o.notifier.Send(ctx, req.ContactEmail, order); err != nil {
		o.logger.Warn("Receipt delivery failed",
			zap.String("order_id", order.ID),
			zap.String("recipient", req.ContactEmail),
			zap.Error(err))
		outcome.Notification = NotificationFailed
		note = fmt.Sprintf("Confirmation email to %s could not be sent.", req.ContactEmail)
	} else {
		outcome.Notification = NotificationSent
		note = fmt.Sprintf("Confirmation email sent to %s.", req.ContactEmail)
	}

	outcome.Message = fmt.Sprintf(
		"Payment successful!\nOrder placed: #%s\nTotal: $%s\nPayment ID: %s\n%s\nThank you for shopping with SalesMate!",
		order.ID, total.StringFixed(2), order.PaymentID, note)

	return outcome, nil
}

func (o *Orchestrator) recordAudit(order *models.Order) {
	if o.trail == nil {
		return
	}
	go func() {
		entry := &audit.Entry{
			Service:  "purchase",
			Action:   "create_order",
			EntityID: order.ID,
			Data: bson.M{
				"user_id":      order.UserID,
				"total_amount": order.TotalAmount.String(),
				"payment_id":   order.PaymentID,
			},
		}
		if err := o.trail.Record(context.Background(), entry); err != nil {
			o.logger.Warn("Audit write failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}
