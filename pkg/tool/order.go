package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/salesmate/pkg/purchase"
	"go.uber.org/zap"
)

// BuyProduct exposes the purchase orchestrator to the agent. Business
// failures come back as text the agent can relay; infrastructure faults are
// logged and surfaced as a generic apology.
type BuyProduct struct {
	orchestrator *purchase.Orchestrator
	logger       *zap.Logger
}

func NewBuyProduct(o *purchase.Orchestrator, logger *zap.Logger) *BuyProduct {
	return &BuyProduct{orchestrator: o, logger: logger}
}

type buyInput struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UserEmail   string `json:"user_email"`
}

func (c *BuyProduct) Name() string { return "buy_product" }

func (c *BuyProduct) Description() string {
	return "Processes a product purchase and returns a confirmation with order details, " +
		"or an error message the user can act on."
}

func (c *BuyProduct) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"product_name": map[string]interface{}{
				"type":        "string",
				"description": "The name of the product to buy.",
			},
			"quantity": map[string]interface{}{
				"type":    "integer",
				"minimum": 1,
				"default": 1,
			},
			"user_email": map[string]interface{}{
				"type":        "string",
				"description": "The email address to send the receipt to.",
			},
		},
		"required": []string{"product_name"},
	}
}

func (c *BuyProduct) Invoke(ctx context.Context, input json.RawMessage) (string, error) {
	var in buyInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid purchase input: %w", err)
	}
	if in.ProductName == "" {
		return "", errors.New("product_name is required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	outcome, err := c.orchestrator.Buy(ctx, purchase.Request{
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		ContactEmail: in.UserEmail,
	})
	if err != nil {
		return purchaseFailureMessage(in.ProductName, err, c.logger), nil
	}
	return outcome.Message, nil
}

func purchaseFailureMessage(productName string, err error, logger *zap.Logger) string {
	var notFound *purchase.ProductNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Error: Product '%s' not found.", notFound.Name)
	}

	var stock *purchase.InsufficientStockError
	if errors.As(err, &stock) {
		return fmt.Sprintf("Error: Insufficient stock for '%s'. Available: %d", stock.Product, stock.Available)
	}

	if errors.Is(err, purchase.ErrInvalidQuantity) {
		return "Error: Quantity must be at least 1."
	}

	// Infrastructure fault: nothing the shopper can fix.
	logger.Error("Purchase failed",
		zap.String("product_name", productName),
		zap.Error(err))
	return "Sorry, we could not complete your purchase right now. Please try again later."
}
