// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrEmptyOrder     = errors.New("cannot submit an empty order")
	ErrNotOwner       = errors.New("order belongs to another user")
)

// Service owns the order lifecycle: one-way submission, one-way paid and
// delivered flags.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit freezes the cart into a durable order. The cart's totals are
// trusted verbatim.
func (s *Service) Submit(ctx context.Context, userID uint, c *cart.Cart) (*Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	o := fromCart(userID, c)
	if err := s.store.Insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID returns a single order. Non-admins may only read their own;
// a foreign order reports ErrNotOwner, not ErrOrderNotFound, so the
// handler can answer 403 rather than leak existence through timing.
func (s *Service) GetByID(ctx context.Context, rawID string, requesterID uint, isAdmin bool) (*Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	o, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, ErrNotOwner
	}
	return o, nil
}

// ListMine returns the user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID uint) ([]Order, error) {
	return s.store.FindByOwner(ctx, userID)
}

// ListAll returns every order with its owner's display name attached.
func (s *Service) ListAll(ctx context.Context) ([]OwnedOrder, error) {
	return s.store.ListAll(ctx)
}

// MarkPaid sets the paid flag. Calling it on an already-paid order is a
// no-op that still returns the order; the conditional update keeps the
// original PaidAt under concurrent calls.
func (s *Service) MarkPaid(ctx context.Context, rawID string) (*Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.SetPaid(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	// Zero rows means either already paid or missing; FindByID settles it.
	return s.store.FindByID(ctx, id)
}

// MarkDelivered mirrors MarkPaid for the delivered flag.
func (s *Service) MarkDelivered(ctx context.Context, rawID string) (*Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.SetDelivered(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func parseID(rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, ErrInvalidOrderID
	}
	return id, nil
}
