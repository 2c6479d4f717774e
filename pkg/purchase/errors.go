package purchase

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity rejects purchase requests for less than one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ProductNotFoundError means the requested name matched nothing in the
// catalog. User-correctable.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Name)
}

// InsufficientStockError means the requested quantity exceeds availability.
// User-correctable; Available carries the true remaining count.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// LedgerWriteError wraps an infrastructure fault from the order ledger.
// Surfaced to shoppers as a generic failure; full context is logged.
type LedgerWriteError struct {
	Err error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Err)
}

func (e *LedgerWriteError) Unwrap() error {
	return e.Err
}
