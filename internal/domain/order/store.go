// internal/domain/order/store.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists orders.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOwner(ctx context.Context, userID uint) ([]Order, error)
	ListAll(ctx context.Context) ([]OwnedOrder, error)
	SetPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	SetDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// PostgresStore implements Store on GORM.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, o *Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Lines").First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]OwnedOrder, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	owners, err := s.ownerNames(ctx, orders)
	if err != nil {
		return nil, err
	}

	owned := make([]OwnedOrder, 0, len(orders))
	for _, o := range orders {
		owned = append(owned, OwnedOrder{Order: o, OwnerName: owners[o.UserID]})
	}
	return owned, nil
}

// ownerNames resolves display names in one query. Deleted owners leave
// the name empty rather than dropping the order from the listing.
func (s *PostgresStore) ownerNames(ctx context.Context, orders []Order) (map[uint]string, error) {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var rows []struct {
		ID    uint
		Name  string
		Email string
	}
	err := s.db.WithContext(ctx).
		Table("users").
		Select("id, name, email").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order owners: %w", err)
	}

	names := make(map[uint]string, len(rows))
	for _, r := range rows {
		if r.Name != "" {
			names[r.ID] = r.Name
		} else {
			names[r.ID] = r.Email
		}
	}
	return names, nil
}

func (s *PostgresStore) SetPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *PostgresStore) SetDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND is_delivered = ?", id, false).
		Updates(map[string]interface{}{"is_delivered": true, "delivered_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark order delivered: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
