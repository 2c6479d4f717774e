package models

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are owned by the catalog store and
// only stock-adjustment operations may mutate them.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Sizes       []string        `json:"sizes,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}
