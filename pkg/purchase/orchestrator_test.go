package purchase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/example/salesmate/pkg/catalog"
	"github.com/example/salesmate/pkg/ledger"
	"github.com/example/salesmate/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLedger struct {
	mu     sync.Mutex
	orders []*models.Order
	calls  int
	fail   bool
}

func (f *fakeLedger) Create(ctx context.Context, owner string, items []models.LineItem, total decimal.Decimal) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("dial tcp 127.0.0.1:3306: connection refused")
	}
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

type fakeNotifier struct {
	sent []string
	fail bool
}

func (f *fakeNotifier) Send(ctx context.Context, address string, order *models.Order) error {
	f.sent = append(f.sent, address)
	if f.fail {
		return errors.New("smtp: 535 authentication failed")
	}
	return nil
}

type failingCatalog struct{}

func (failingCatalog) Find(ctx context.Context, f catalog.Filter, limit int64) ([]models.Product, error) {
	return nil, errors.New("server selection timeout")
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestCatalog(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()
	store.Add(models.Product{
		ID:          "p1",
		Name:        "Classic White T-Shirt",
		Category:    "Men",
		Subcategory: "T-Shirts",
		Price:       mustDecimal(t, "25.00"),
		Stock:       100,
		Description: "Premium cotton classic fit white t-shirt.",
	})
	return store
}

func newOrchestrator(t *testing.T, store catalog.Store, l *fakeLedger, n *fakeNotifier) *Orchestrator {
	t.Helper()
	return New(store, l, n, nil, zap.NewNop())
}

func TestBuySuccessWithContact(t *testing.T) {
	ledgerFake := &fakeLedger{}
	notifier := &fakeNotifier{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, notifier)

	outcome, err := orch.Buy(context.Background(), Request{
		ProductName:  "Classic White T-Shirt",
		Quantity:     2,
		ContactEmail: "a@b.com",
	})
	require.NoError(t, err)

	assert.True(t, outcome.Total.Equal(mustDecimal(t, "50.00")), "total = %s", outcome.Total)
	assert.Equal(t, NotificationSent, outcome.Notification)
	assert.NotEmpty(t, outcome.OrderID)
	assert.NotEmpty(t, outcome.PaymentID)
	assert.NotEqual(t, outcome.OrderID, outcome.PaymentID)
	assert.Contains(t, outcome.Message, "Payment successful!")
	assert.Contains(t, outcome.Message, "Confirmation email sent to a@b.com.")

	require.Equal(t, 1, ledgerFake.calls)
	require.Len(t, ledgerFake.orders, 1)
	order := ledgerFake.orders[0]
	assert.Equal(t, "a@b.com", order.UserID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	items, err := order.LineItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Classic White T-Shirt", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(mustDecimal(t, "25.00")))

	require.Equal(t, []string{"a@b.com"}, notifier.sent)
}

func TestBuyInsufficientStock(t *testing.T) {
	ledgerFake := &fakeLedger{}
	notifier := &fakeNotifier{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, notifier)

	_, err := orch.Buy(context.Background(), Request{
		ProductName: "Classic White T-Shirt",
		Quantity:    200,
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Classic White T-Shirt", stockErr.Product)
	assert.Equal(t, 200, stockErr.Requested)
	assert.Equal(t, 100, stockErr.Available)

	assert.Zero(t, ledgerFake.calls, "no ledger write on rejected purchase")
	assert.Empty(t, notifier.sent)
}

func TestBuyProductNotFound(t *testing.T) {
	ledgerFake := &fakeLedger{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, &fakeNotifier{})

	_, err := orch.Buy(context.Background(), Request{
		ProductName: "Nonexistent Shoe",
		Quantity:    1,
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Nonexistent Shoe", notFound.Name)
	assert.Zero(t, ledgerFake.calls)
}

func TestBuyInvalidQuantity(t *testing.T) {
	ledgerFake := &fakeLedger{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, &fakeNotifier{})

	for _, qty := range []int{0, -3} {
		_, err := orch.Buy(context.Background(), Request{
			ProductName: "Classic White T-Shirt",
			Quantity:    qty,
		})
		require.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
	}
	assert.Zero(t, ledgerFake.calls)
}

func TestBuyLedgerFailure(t *testing.T) {
	ledgerFake := &fakeLedger{fail: true}
	notifier := &fakeNotifier{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, notifier)

	_, err := orch.Buy(context.Background(), Request{
		ProductName:  "Classic White T-Shirt",
		Quantity:     1,
		ContactEmail: "a@b.com",
	})

	var writeErr *LedgerWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Empty(t, notifier.sent, "no notification for a failed write")
}

func TestBuyCatalogFailure(t *testing.T) {
	ledgerFake := &fakeLedger{}
	orch := newOrchestrator(t, failingCatalog{}, ledgerFake, &fakeNotifier{})

	_, err := orch.Buy(context.Background(), Request{
		ProductName: "Classic White T-Shirt",
		Quantity:    1,
	})
	require.Error(t, err)

	var notFound *ProductNotFoundError
	assert.False(t, errors.As(err, &notFound), "infrastructure fault must not masquerade as not-found")
	assert.Zero(t, ledgerFake.calls)
}

func TestBuyNotifierFailureKeepsOrder(t *testing.T) {
	ledgerFake := &fakeLedger{}
	notifier := &fakeNotifier{fail: true}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, notifier)

	outcome, err := orch.Buy(context.Background(), Request{
		ProductName:  "Classic White T-Shirt",
		Quantity:     3,
		ContactEmail: "a@b.com",
	})
	require.NoError(t, err, "notification failure never fails the purchase")

	assert.Equal(t, NotificationFailed, outcome.Notification)
	assert.Contains(t, outcome.Message, "could not be sent")

	// The order stays recorded and readable.
	require.Len(t, ledgerFake.orders, 1)
	assert.Equal(t, outcome.OrderID, ledgerFake.orders[0].ID)
	assert.True(t, ledgerFake.orders[0].TotalAmount.Equal(mustDecimal(t, "75.00")))
}

func TestBuyWithoutContactSkipsNotification(t *testing.T) {
	ledgerFake := &fakeLedger{}
	notifier := &fakeNotifier{}
	orch := newOrchestrator(t, newTestCatalog(t), ledgerFake, notifier)

	outcome, err := orch.Buy(context.Background(), Request{
		ProductName: "Classic White T-Shirt",
		Quantity:    1,
	})
	require.NoError(t, err)

	assert.Equal(t, NotificationSkipped, outcome.Notification)
	assert.Contains(t, outcome.Message, "No email provided for notification.")
	assert.Empty(t, notifier.sent)

	require.Len(t, ledgerFake.orders, 1)
	assert.Equal(t, models.AnonymousUser, ledgerFake.orders[0].UserID)
}

func TestBuyTotalExactOverRandomizedPrices(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		cents := int64(rng.Intn(100000) + 1)
		qty := rng.Intn(20) + 1
		price := decimal.New(cents, -2)

		store := catalog.NewMemoryStore()
		store.Add(models.Product{Name: "Widget", Price: price, Stock: qty})

		ledgerFake := &fakeLedger{}
		orch := newOrchestrator(t, store, ledgerFake, &fakeNotifier{})

		outcome, err := orch.Buy(context.Background(), Request{ProductName: "Widget", Quantity: qty})
		require.NoError(t, err)

		expected := decimal.New(cents*int64(qty), -2)
		require.True(t, outcome.Total.Equal(expected),
			"price %s x %d: got %s, want %s", price, qty, outcome.Total, expected)
		require.Equal(t, 1, ledgerFake.calls)
	}
}

func TestBuyAmbiguousNameTakesFirstMatch(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.Add(
		models.Product{Name: "Blue Shirt", Price: mustDecimal(t, "10.00"), Stock: 5},
		models.Product{Name: "Red Shirt", Price: mustDecimal(t, "99.00"), Stock: 5},
	)
	ledgerFake := &fakeLedger{}
	orch := newOrchestrator(t, store, ledgerFake, &fakeNotifier{})

	outcome, err := orch.Buy(context.Background(), Request{ProductName: "shirt", Quantity: 1})
	require.NoError(t, err)
	assert.True(t, outcome.Total.Equal(mustDecimal(t, "10.00")), "first candidate in natural order wins")
}
