// internal/domain/checkout/store.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists checkout sessions.
type Store interface {
	Load(ctx context.Context, userID uint) (*State, error)
	Save(ctx context.Context, userID uint, state *State) error
}

// Locker guards the submit step against concurrent duplicates.
type Locker interface {
	Acquire(ctx context.Context, userID uint) (bool, error)
	Release(ctx context.Context, userID uint) error
}

// RedisStore keeps one session document per user. Sessions have no TTL;
// an abandoned checkout resumes where it left off.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func stateKey(userID uint) string {
	return fmt.Sprintf("checkout:user:%d", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID uint) (*State, error) {
	data, err := s.client.Get(ctx, stateKey(userID)).Bytes()
	if err == redis.Nil {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode checkout state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, userID uint, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode checkout state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save checkout state: %w", err)
	}
	return nil
}

// RedisLocker implements the submit lock with SET NX. The TTL bounds how
// long a crashed submit can block its user.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func lockKey(userID uint) string {
	return fmt.Sprintf("checkout:submit:user:%d", userID)
}

func (l *RedisLocker) Acquire(ctx context.Context, userID uint) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(userID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, userID uint) error {
	if err := l.client.Del(ctx, lockKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}
