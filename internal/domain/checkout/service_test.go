package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

type mockStore struct {
	state *State
}

func (m *mockStore) Load(context.Context, uint) (*State, error) {
	if m.state == nil {
		return NewState(), nil
	}
	return m.state, nil
}

func (m *mockStore) Save(_ context.Context, _ uint, state *State) error {
	m.state = state
	return nil
}

type mockLocker struct {
	held     bool
	acquires int
	releases int
}

func (m *mockLocker) Acquire(context.Context, uint) (bool, error) {
	m.acquires++
	if m.held {
		return false, nil
	}
	m.held = true
	return true, nil
}

func (m *mockLocker) Release(context.Context, uint) error {
	m.held = false
	m.releases++
	return nil
}

type mockCarts struct {
	cart    *cart.Cart
	cleared bool
}

func (m *mockCarts) GetCart(context.Context, uint) (*cart.Cart, error) {
	if m.cart == nil {
		m.cart = cart.NewCart()
	}
	return m.cart, nil
}

func (m *mockCarts) SetShippingAddress(_ context.Context, _ uint, addr cart.Address) (*cart.Cart, error) {
	c, _ := m.GetCart(context.Background(), 0)
	c.ShippingAddress = &addr
	return c, nil
}

func (m *mockCarts) SetPaymentMethod(_ context.Context, _ uint, method cart.PaymentMethod) (*cart.Cart, error) {
	if !method.Valid() {
		return nil, cart.ErrInvalidPaymentMethod
	}
	c, _ := m.GetCart(context.Background(), 0)
	c.PaymentMethod = method
	return c, nil
}

func (m *mockCarts) Clear(context.Context, uint) (*cart.Cart, error) {
	m.cleared = true
	m.cart.Lines = nil
	return m.cart, nil
}

type mockPlacer struct {
	placed   int
	placeErr error
}

func (m *mockPlacer) Submit(_ context.Context, userID uint, c *cart.Cart) (*order.Order, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	if c == nil || c.IsEmpty() {
		return nil, order.ErrEmptyOrder
	}
	m.placed++
	return &order.Order{ID: uuid.New(), UserID: userID, GrandTotal: c.GrandTotal}, nil
}

type fixture struct {
	svc    *Service
	store  *mockStore
	locker *mockLocker
	carts  *mockCarts
	placer *mockPlacer
}

func newFixture() *fixture {
	f := &fixture{
		store:  &mockStore{},
		locker: &mockLocker{},
		carts:  &mockCarts{},
		placer: &mockPlacer{},
	}
	f.svc = NewService(f.store, f.locker, f.carts, f.placer)
	return f
}

func validAddress() cart.Address {
	return cart.Address{Street: "1 Main St", City: "Pune", PostalCode: "411001", Country: "IN"}
}

func readyCart() *cart.Cart {
	addr := validAddress()
	return &cart.Cart{
		Lines:           []cart.Line{{ProductID: 1, Name: "Keyboard", UnitPrice: 40000, Quantity: 1}},
		ShippingAddress: &addr,
		PaymentMethod:   cart.PaymentMethodCardOrWallet,
		ItemsTotal:      40000,
		ShippingFee:     10000,
		Tax:             6000,
		GrandTotal:      56000,
	}
}

func TestSubmitAddressReportsAllMissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SubmitAddress(context.Background(), 1, cart.Address{City: "Pune"})

	var vErr *AddressValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{"street", "postal_code", "country"}, vErr.Fields)

	// State stays put on failure.
	state, err := f.svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StepStart, state.Step)
}

func TestSubmitAddressAdvances(t *testing.T) {
	f := newFixture()

	state, err := f.svc.SubmitAddress(context.Background(), 1, validAddress())
	require.NoError(t, err)
	assert.Equal(t, StepAddressCollected, state.Step)
	require.NotNil(t, f.carts.cart.ShippingAddress)
}

func TestSelectPaymentMethodRequiresAddress(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SelectPaymentMethod(context.Background(), 1, cart.PaymentMethodCashOnDelivery)
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestSelectPaymentMethodAdvances(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()
	f.carts.cart.PaymentMethod = ""

	state, err := f.svc.SelectPaymentMethod(context.Background(), 1, cart.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	assert.Equal(t, StepPaymentSelected, state.Step)
}

func TestReviewGuardIgnoresStoredStep(t *testing.T) {
	f := newFixture()
	// Session claims to be far along, but the cart has no address.
	f.store.state = &State{Step: StepPaymentSelected}

	_, err := f.svc.EnterReview(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestReviewGuardRedirectsToPaymentStep(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()
	f.carts.cart.PaymentMethod = ""

	_, err := f.svc.EnterReview(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)
}

func TestEnterReviewReturnsCart(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()

	review, err := f.svc.EnterReview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StepReviewing, review.Step)
	assert.Equal(t, int64(56000), review.Cart.GrandTotal)
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()

	o, err := f.svc.Submit(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, 1, f.placer.placed)
	assert.True(t, f.carts.cleared)
	assert.Equal(t, 1, f.locker.releases)

	state, err := f.svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, state.Step)
}

func TestSubmitInFlight(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()
	f.locker.held = true

	_, err := f.svc.Submit(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Zero(t, f.placer.placed)
	assert.False(t, f.carts.cleared)
}

func TestSubmitFailureLeavesCartAndState(t *testing.T) {
	f := newFixture()
	f.carts.cart = readyCart()
	f.store.state = &State{Step: StepReviewing}
	f.placer.placeErr = errors.New("database down")

	_, err := f.svc.Submit(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, f.carts.cleared)
	assert.Equal(t, 1, f.locker.releases)

	state, err := f.svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StepReviewing, state.Step)
}

func TestSubmitEmptyCartFailsGuardOrPlacement(t *testing.T) {
	f := newFixture()
	addr := validAddress()
	f.carts.cart = &cart.Cart{ShippingAddress: &addr, PaymentMethod: cart.PaymentMethodCardOrWallet}

	_, err := f.svc.Submit(context.Background(), 1)
	assert.ErrorIs(t, err, order.ErrEmptyOrder)
	assert.False(t, f.carts.cleared)
}
