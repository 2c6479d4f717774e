package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/salesmate/pkg/catalog"
	"github.com/example/salesmate/pkg/ledger"
	"github.com/example/salesmate/pkg/models"
	"github.com/example/salesmate/pkg/purchase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingLedger struct {
	orders []*models.Order
}

func (f *recordingLedger) Create(ctx context.Context, owner string, items []models.LineItem, total decimal.Decimal) (*models.Order, error) {
	order := &models.Order{
		ID:          ledger.NewOrderID(),
		UserID:      owner,
		TotalAmount: total,
		Status:      models.OrderStatusPaid,
		PaymentID:   ledger.NewPaymentID(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := order.SetLineItems(items); err != nil {
		return nil, err
	}
	f.orders = append(f.orders, order)
	return order, nil
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, address string, order *models.Order) error {
	return nil
}

func fixtureRegistry(t *testing.T) (*Registry, *recordingLedger) {
	t.Helper()

	store := catalog.NewMemoryStore()
	price, err := decimal.NewFromString("25.00")
	require.NoError(t, err)
	store.Add(models.Product{Name: "Classic White T-Shirt", Price: price, Stock: 100})

	ledgerFake := &recordingLedger{}
	orch := purchase.New(store, ledgerFake, noopNotifier{}, nil, zap.NewNop())

	registry, err := NewRegistry(
		NewSearchInventory(store, zap.NewNop()),
		NewBuyProduct(orch, zap.NewNop()),
	)
	require.NoError(t, err)
	return registry, ledgerFake
}

func TestRegistryRejectsDuplicateAndUnknown(t *testing.T) {
	registry, _ := fixtureRegistry(t)

	err := registry.Register(NewSearchInventory(catalog.NewMemoryStore(), zap.NewNop()))
	require.Error(t, err)

	_, err = registry.Invoke(context.Background(), "refund_order", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestSearchInventoryReturnsMatches(t *testing.T) {
	registry, _ := fixtureRegistry(t)

	result, err := registry.Invoke(context.Background(), "search_inventory",
		json.RawMessage(`{"query":"t-shirt"}`))
	require.NoError(t, err)
	assert.Contains(t, result, "Classic White T-Shirt")
}

func TestSearchInventoryNoMatches(t *testing.T) {
	registry, _ := fixtureRegistry(t)

	result, err := registry.Invoke(context.Background(), "search_inventory",
		json.RawMessage(`{"query":"nonexistent shoe"}`))
	require.NoError(t, err)
	assert.Equal(t, "No products found matching the criteria.", result)
}

func TestBuyProductDefaultsQuantityToOne(t *testing.T) {
	registry, ledgerFake := fixtureRegistry(t)

	result, err := registry.Invoke(context.Background(), "buy_product",
		json.RawMessage(`{"product_name":"Classic White T-Shirt"}`))
	require.NoError(t, err)
	assert.Contains(t, result, "Payment successful!")

	require.Len(t, ledgerFake.orders, 1)
	items, err := ledgerFake.orders[0].LineItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestBuyProductUserCorrectableMessages(t *testing.T) {
	registry, ledgerFake := fixtureRegistry(t)

	result, err := registry.Invoke(context.Background(), "buy_product",
		json.RawMessage(`{"product_name":"Nonexistent Shoe"}`))
	require.NoError(t, err)
	assert.Equal(t, "Error: Product 'Nonexistent Shoe' not found.", result)

	result, err = registry.Invoke(context.Background(), "buy_product",
		json.RawMessage(`{"product_name":"Classic White T-Shirt","quantity":200}`))
	require.NoError(t, err)
	assert.Equal(t, "Error: Insufficient stock for 'Classic White T-Shirt'. Available: 100", result)

	assert.Empty(t, ledgerFake.orders)
}

func TestBuyProductRequiresName(t *testing.T) {
	registry, _ := fixtureRegistry(t)

	_, err := registry.Invoke(context.Background(), "buy_product", json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestBuyProductGenericApologyForInfrastructure(t *testing.T) {
	store := catalog.NewMemoryStore()
	price, err := decimal.NewFromString("25.00")
	require.NoError(t, err)
	store.Add(models.Product{Name: "Classic White T-Shirt", Price: price, Stock: 100})

	orch := purchase.New(store, failingLedger{}, noopNotifier{}, nil, zap.NewNop())
	cmd := NewBuyProduct(orch, zap.NewNop())

	result, err := cmd.Invoke(context.Background(),
		json.RawMessage(`{"product_name":"Classic White T-Shirt"}`))
	require.NoError(t, err)
	assert.Equal(t, "Sorry, we could not complete your purchase right now. Please try again later.", result)
}

type failingLedger struct{}

func (failingLedger) Create(ctx context.Context, owner string, items []models.LineItem, total decimal.Decimal) (*models.Order, error) {
	return nil, errors.New("table 'orders' is read only")
}
