// Package catalog implements product inventory lookup.
package catalog

import (
	"context"

	"github.com/example/salesmate/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultLimit caps result sets when the caller passes no limit.
const DefaultLimit = 10

// Filter selects products. All fields are optional and combine with AND,
// except Query which matches case-insensitively as a substring of ANY of
// name, description or subcategory. Category matches case-insensitively on
// the category field. Price bounds are inclusive.
type Filter struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Store is the catalog lookup contract. Find returns matches in the store's
// natural order, at most limit entries, and an empty slice (not an error)
// when nothing matches. Find has no side effects.
type Store interface {
	Find(ctx context.Context, f Filter, limit int64) ([]models.Product, error)
}
