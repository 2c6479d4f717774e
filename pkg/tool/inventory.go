package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/salesmate/pkg/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SearchInventory exposes catalog lookup to the agent.
type SearchInventory struct {
	catalog catalog.Store
	logger  *zap.Logger
}

func NewSearchInventory(c catalog.Store, logger *zap.Logger) *SearchInventory {
	return &SearchInventory{catalog: c, logger: logger}
}

type searchInput struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Limit    int64    `json:"limit"`
}

func (c *SearchInventory) Name() string { return "search_inventory" }

func (c *SearchInventory) Description() string {
	return "Searches the product inventory for items matching the criteria. " +
		"Use this when the user asks about available products, stock, or specific items."
}

func (c *SearchInventory) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search term for product name, description, or subcategory (e.g. \"shirt\", \"denim\").",
			},
			"category": map[string]interface{}{
				"type":        "string",
				"description": "Main category filter (e.g. \"Men\", \"Women\", \"Accessories\").",
			},
			"min_price": map[string]interface{}{"type": "number"},
			"max_price": map[string]interface{}{"type": "number"},
			"limit":     map[string]interface{}{"type": "integer", "default": catalog.DefaultLimit},
		},
	}
}

func (c *SearchInventory) Invoke(ctx context.Context, input json.RawMessage) (string, error) {
	var in searchInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("invalid search input: %w", err)
		}
	}

	filter := catalog.Filter{Query: in.Query, Category: in.Category}
	if in.MinPrice != nil {
		d := decimal.NewFromFloat(*in.MinPrice)
		filter.MinPrice = &d
	}
	if in.MaxPrice != nil {
		d := decimal.NewFromFloat(*in.MaxPrice)
		filter.MaxPrice = &d
	}

	products, err := c.catalog.Find(ctx, filter, in.Limit)
	if err != nil {
		c.logger.Error("Inventory search failed", zap.String("query", in.Query), zap.Error(err))
		return "Sorry, the product catalog is unavailable right now. Please try again later.", nil
	}
	if len(products) == 0 {
		return "No products found matching the criteria.", nil
	}

	out, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(out), nil
}
