package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

type mockStore struct {
	cart      *Cart
	loadErr   error
	saveErr   error
	saveCount int
}

func (m *mockStore) Load(context.Context, uint) (*Cart, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cart == nil {
		return NewCart(), nil
	}
	return m.cart, nil
}

func (m *mockStore) Save(_ context.Context, _ uint, c *Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCount++
	m.cart = c
	return nil
}

type mockCatalog struct {
	snapshots map[uint]*product.Snapshot
	calls     int
}

func (m *mockCatalog) ProductSnapshot(_ context.Context, productID uint) (*product.Snapshot, error) {
	m.calls++
	snap, ok := m.snapshots[productID]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return snap, nil
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.15"),
		ShippingFee:           10000,  // 100.00
		FreeShippingThreshold: 100000, // 1000.00
	}
}

func newTestService(store *mockStore, catalog *mockCatalog) *Service {
	return NewService(store, catalog, testPricing())
}

func TestUpsertLineReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		7: {ProductID: 7, Name: "Keyboard", UnitPrice: 25000, Image: "/img/kb.jpg", StockLimit: 10},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 7, 2)
	require.NoError(t, err)

	// Price changes between calls: the line must carry the fresh snapshot.
	catalog.snapshots[7].UnitPrice = 30000

	c, err := svc.UpsertLine(ctx, 1, 7, 5)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, int64(30000), c.Lines[0].UnitPrice)
}

func TestUpsertLineAppendsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 5},
		2: {ProductID: 2, Name: "B", UnitPrice: 2000, StockLimit: 5},
		3: {ProductID: 3, Name: "C", UnitPrice: 3000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	for _, id := range []uint{2, 1, 3} {
		_, err := svc.UpsertLine(ctx, 1, id, 1)
		require.NoError(t, err)
	}

	c, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 3)
	assert.Equal(t, uint(2), c.Lines[0].ProductID)
	assert.Equal(t, uint(1), c.Lines[1].ProductID)
	assert.Equal(t, uint(3), c.Lines[2].ProductID)
}

func TestPricingInvariants(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "Cheap", UnitPrice: 40000, StockLimit: 10},  // 400.00
		2: {ProductID: 2, Name: "Spendy", UnitPrice: 80000, StockLimit: 10}, // 800.00
	}}
	svc := newTestService(store, catalog)

	// 400.00: below the free-shipping threshold.
	c, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), c.ItemsTotal)
	assert.Equal(t, int64(10000), c.ShippingFee)
	assert.Equal(t, int64(6000), c.Tax) // 15% of 400.00
	assert.Equal(t, int64(56000), c.GrandTotal)

	// 1200.00: above the threshold, shipping is free.
	c, err = svc.UpsertLine(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), c.ItemsTotal)
	assert.Equal(t, int64(0), c.ShippingFee)
	assert.Equal(t, int64(18000), c.Tax) // 180.00
	assert.Equal(t, int64(138000), c.GrandTotal)
}

func TestPricingExactlyAtThresholdPaysShipping(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "Edge", UnitPrice: 100000, StockLimit: 3}, // 1000.00
	}}
	svc := newTestService(store, catalog)

	// itemsTotal must strictly exceed the threshold for free shipping.
	c, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), c.ShippingFee)
}

func TestTaxRoundsHalfAwayFromZero(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "Oddly priced", UnitPrice: 13333, StockLimit: 10}, // 133.33
	}}
	svc := newTestService(store, catalog)

	c, err := svc.UpsertLine(ctx, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(39999), c.ItemsTotal) // 399.99
	// 15% of 399.99 is 59.9985, which rounds to 60.00.
	assert.Equal(t, int64(6000), c.Tax)
	assert.Equal(t, int64(55999), c.GrandTotal) // 399.99 + 100.00 + 60.00
}

func TestQuantityBounds(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 3},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)

	// Decrement at quantity 1 floors at 1, never removes the line.
	c, err := svc.DecrementLine(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	// Increment past the stock limit ceilings at the limit.
	for i := 0; i < 5; i++ {
		c, err = svc.IncrementLine(ctx, 1, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestUpsertClampsQuantityToStockLimit(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 2},
	}}
	svc := newTestService(store, catalog)

	c, err := svc.UpsertLine(ctx, 1, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestUpsertOutOfStock(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "Gone", UnitPrice: 1000, StockLimit: 0},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)

	c, err := svc.RemoveLine(ctx, 1, 42)
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestAdjustAbsentLineFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockStore{}, &mockCatalog{})

	_, err := svc.IncrementLine(ctx, 1, 42)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.IncrementLine(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.SetShippingAddress(ctx, 1, Address{Street: "1 Main St", City: "Pune", PostalCode: "411001", Country: "IN"})
	require.NoError(t, err)
	_, err = svc.SetPaymentMethod(ctx, 1, PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	_, err = svc.RemoveLine(ctx, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, store.saveCount)
}

func TestAddressAndPaymentDoNotTouchTotals(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 40000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	c, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	wantGrand := c.GrandTotal

	c, err = svc.SetShippingAddress(ctx, 1, Address{Street: "1 Main St", City: "Pune", PostalCode: "411001", Country: "IN"})
	require.NoError(t, err)
	assert.Equal(t, wantGrand, c.GrandTotal)

	c, err = svc.SetPaymentMethod(ctx, 1, PaymentMethodCardOrWallet)
	require.NoError(t, err)
	assert.Equal(t, wantGrand, c.GrandTotal)
	require.NotNil(t, c.ShippingAddress)
	assert.Equal(t, "Pune", c.ShippingAddress.City)
}

func TestSetPaymentMethodRejectsUnknown(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockStore{}, &mockCatalog{})

	_, err := svc.SetPaymentMethod(ctx, 1, PaymentMethod("barter"))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestClearCollapsesTotalsAndKeepsAddress(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 40000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = svc.SetShippingAddress(ctx, 1, Address{Street: "1 Main St", City: "Pune", PostalCode: "411001", Country: "IN"})
	require.NoError(t, err)

	c, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.Equal(t, int64(0), c.ItemsTotal)
	assert.Equal(t, int64(0), c.ShippingFee)
	assert.Equal(t, int64(0), c.Tax)
	assert.Equal(t, int64(0), c.GrandTotal)
	assert.NotNil(t, c.ShippingAddress)
}

func TestUpsertDoesNotRequeryExistingLines(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	calls := catalog.calls

	// Increment works off the line's own snapshot.
	_, err = svc.IncrementLine(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, calls, catalog.calls)
}

func TestStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("redis down")
	store := &mockStore{saveErr: boom}
	catalog := &mockCatalog{snapshots: map[uint]*product.Snapshot{
		1: {ProductID: 1, Name: "A", UnitPrice: 1000, StockLimit: 5},
	}}
	svc := newTestService(store, catalog)

	_, err := svc.UpsertLine(ctx, 1, 1, 1)
	assert.ErrorIs(t, err, boom)
}
