// Package notify delivers purchase receipts to shoppers.
package notify

import (
	"context"

	"github.com/example/salesmate/pkg/models"
)

// Notifier sends a receipt for a recorded order to a destination address.
// Delivery is best-effort: callers must treat a returned error as
// informational and never unwind the order.
type Notifier interface {
	Send(ctx context.Context, address string, order *models.Order) error
}
