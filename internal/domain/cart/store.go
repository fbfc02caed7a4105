// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store is the persistence port for carts. Load returns an empty cart when
// the owner has none yet; Save writes the whole document back.
type Store interface {
	Load(ctx context.Context, userID uint) (*Cart, error)
	Save(ctx context.Context, userID uint, c *Cart) error
}

// RedisStore persists carts as JSON documents in Redis. Keys carry no TTL so
// a cart survives login/logout and browser sessions until it is cleared by a
// successful order submission.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed cart store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

// Load retrieves the owner's cart, or an empty cart if none exists.
func (s *RedisStore) Load(ctx context.Context, userID uint) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return NewCart(), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// Save persists the cart document.
func (s *RedisStore) Save(ctx context.Context, userID uint, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
