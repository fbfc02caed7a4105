// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

var (
	ErrLineNotFound         = errors.New("item not found in cart")
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// SnapshotSource yields a fresh catalog snapshot for a product. The cart
// queries it only when a line is added or replaced, never for lines already
// present.
type SnapshotSource interface {
	ProductSnapshot(ctx context.Context, productID uint) (*product.Snapshot, error)
}

// Service handles cart business logic. Every mutating operation runs to
// completion, including persistence, before it returns: mutate, recompute
// derived totals, save.
type Service struct {
	store   Store
	catalog SnapshotSource
	pricing config.PricingConfig
}

// NewService creates a new cart service
func NewService(store Store, catalog SnapshotSource, pricing config.PricingConfig) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		pricing: pricing,
	}
}

// GetCart retrieves the owner's cart.
func (s *Service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	return s.store.Load(ctx, userID)
}

// UpsertLine adds a product to the cart at the given absolute quantity. An
// existing line for the same product is replaced wholesale with a fresh
// catalog snapshot; callers pass the desired quantity, not a delta, so rapid
// repeated calls never double-count.
func (s *Service) UpsertLine(ctx context.Context, userID uint, productID uint, quantity int) (*Cart, error) {
	snap, err := s.catalog.ProductSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	if snap.StockLimit < 1 {
		return nil, ErrOutOfStock
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := lineFromSnapshot(snap, clampQuantity(quantity, snap.StockLimit))
	if i := c.FindLine(productID); i >= 0 {
		c.Lines[i] = line
	} else {
		c.Lines = append(c.Lines, line)
	}

	return s.saveRecalculated(ctx, userID, c)
}

// RemoveLine drops the line for the given product. Removing an absent line
// is a no-op, not an error.
func (s *Service) RemoveLine(ctx context.Context, userID uint, productID uint) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := c.FindLine(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}

	return s.saveRecalculated(ctx, userID, c)
}

// IncrementLine raises the line quantity by one, capped at the stock limit
// snapshotted on the line.
func (s *Service) IncrementLine(ctx context.Context, userID uint, productID uint) (*Cart, error) {
	return s.adjustQuantity(ctx, userID, productID, +1)
}

// DecrementLine lowers the line quantity by one, floored at 1. It never
// removes the line.
func (s *Service) DecrementLine(ctx context.Context, userID uint, productID uint) (*Cart, error) {
	return s.adjustQuantity(ctx, userID, productID, -1)
}

// SetShippingAddress stores the shipping address on the cart. Price fields
// are not recomputed; the address does not participate in pricing.
func (s *Service) SetShippingAddress(ctx context.Context, userID uint, addr Address) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.ShippingAddress = &addr
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPaymentMethod stores the chosen payment method on the cart.
func (s *Service) SetPaymentMethod(ctx context.Context, userID uint, method PaymentMethod) (*Cart, error) {
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.PaymentMethod = method
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart lines and collapses the totals to zero. The address
// and payment method survive; only a successful order submission calls this.
func (s *Service) Clear(ctx context.Context, userID uint) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Lines = []Line{}
	return s.saveRecalculated(ctx, userID, c)
}

func (s *Service) adjustQuantity(ctx context.Context, userID uint, productID uint, delta int) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.FindLine(productID)
	if i < 0 {
		return nil, ErrLineNotFound
	}

	c.Lines[i].Quantity = clampQuantity(c.Lines[i].Quantity+delta, c.Lines[i].StockLimit)
	return s.saveRecalculated(ctx, userID, c)
}

func (s *Service) saveRecalculated(ctx context.Context, userID uint, c *Cart) (*Cart, error) {
	c.Recalculate(s.pricing)
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// clampQuantity bounds q to [1, limit].
func clampQuantity(q, limit int) int {
	if q < 1 {
		return 1
	}
	if q > limit {
		return limit
	}
	return q
}
