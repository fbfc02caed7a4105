// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

var (
	ErrAddressRequired       = errors.New("shipping address required")
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrSubmitInFlight        = errors.New("order submission already in progress")
)

// AddressValidationError lists the address fields that failed validation.
type AddressValidationError struct {
	Fields []string
}

func (e *AddressValidationError) Error() string {
	return "invalid shipping address: missing " + strings.Join(e.Fields, ", ")
}

// CartAccess is the slice of the cart service the flow needs.
type CartAccess interface {
	GetCart(ctx context.Context, userID uint) (*cart.Cart, error)
	SetShippingAddress(ctx context.Context, userID uint, addr cart.Address) (*cart.Cart, error)
	SetPaymentMethod(ctx context.Context, userID uint, method cart.PaymentMethod) (*cart.Cart, error)
	Clear(ctx context.Context, userID uint) (*cart.Cart, error)
}

// OrderPlacer turns a cart into a durable order.
type OrderPlacer interface {
	Submit(ctx context.Context, userID uint, c *cart.Cart) (*order.Order, error)
}

// Review is what the review step shows: the cart exactly as it will be
// submitted.
type Review struct {
	Cart *cart.Cart `json:"cart"`
	Step Step       `json:"step"`
}

// Service drives the checkout flow. Each guard is re-evaluated on entry,
// never trusted from the stored step.
type Service struct {
	store  Store
	locker Locker
	carts  CartAccess
	orders OrderPlacer
}

func NewService(store Store, locker Locker, carts CartAccess, orders OrderPlacer) *Service {
	return &Service{store: store, locker: locker, carts: carts, orders: orders}
}

// Current returns the user's checkout session.
func (s *Service) Current(ctx context.Context, userID uint) (*State, error) {
	return s.store.Load(ctx, userID)
}

// SubmitAddress validates and stores the shipping address. Validation
// failure reports every missing field at once and leaves the session
// where it was.
func (s *Service) SubmitAddress(ctx context.Context, userID uint, addr cart.Address) (*State, error) {
	if missing := addr.MissingFields(); len(missing) > 0 {
		return nil, &AddressValidationError{Fields: missing}
	}

	if _, err := s.carts.SetShippingAddress(ctx, userID, addr); err != nil {
		return nil, err
	}
	return s.advance(ctx, userID, StepAddressCollected)
}

// SelectPaymentMethod stores the payment method. An address must already
// be on the cart.
func (s *Service) SelectPaymentMethod(ctx context.Context, userID uint, method cart.PaymentMethod) (*State, error) {
	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.ShippingAddress == nil {
		return nil, ErrAddressRequired
	}

	if _, err := s.carts.SetPaymentMethod(ctx, userID, method); err != nil {
		return nil, err
	}
	return s.advance(ctx, userID, StepPaymentSelected)
}

// EnterReview runs the review guard and, on success, returns the cart as
// it will be submitted. The guard never trusts the stored step: a cart
// missing its address fails here even if the session says otherwise.
func (s *Service) EnterReview(ctx context.Context, userID uint) (*Review, error) {
	c, err := s.guard(ctx, userID)
	if err != nil {
		return nil, err
	}

	state, err := s.advance(ctx, userID, StepReviewing)
	if err != nil {
		return nil, err
	}
	return &Review{Cart: c, Step: state.Step}, nil
}

// Submit re-runs the review guard, takes the in-flight lock and places
// the order. The cart is cleared and the session advanced only after the
// order is durably stored; any placement failure leaves both untouched.
func (s *Service) Submit(ctx context.Context, userID uint) (*order.Order, error) {
	c, err := s.guard(ctx, userID)
	if err != nil {
		return nil, err
	}

	acquired, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmitInFlight
	}
	defer s.locker.Release(ctx, userID) //nolint:errcheck

	o, err := s.orders.Submit(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("order %s placed but cart not cleared: %w", o.ID, err)
	}
	if _, err := s.advance(ctx, userID, StepSubmitted); err != nil {
		return nil, fmt.Errorf("order %s placed but checkout state not updated: %w", o.ID, err)
	}
	return o, nil
}

func (s *Service) guard(ctx context.Context, userID uint) (*cart.Cart, error) {
	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.ShippingAddress == nil {
		return nil, ErrAddressRequired
	}
	if c.PaymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}
	return c, nil
}

func (s *Service) advance(ctx context.Context, userID uint, step Step) (*State, error) {
	state, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.advanceTo(step)
	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}
