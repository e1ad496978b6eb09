package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

const defaultFiredTTL = 48 * time.Hour

// SetNXer описывает часть клиента Redis для атомарной отметки.
type SetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisFiredStore отмечает разосланные события ключами с ограниченным сроком жизни.
type RedisFiredStore struct {
	client SetNXer
	prefix string
	ttl    time.Duration
}

var _ domain.FiredStore = (*RedisFiredStore)(nil)

// NewRedisFiredStore создаёт хранилище отметок.
func NewRedisFiredStore(client SetNXer, prefix string) *RedisFiredStore {
	if prefix == "" {
		prefix = "hilal:fired"
	}
	return &RedisFiredStore{client: client, prefix: prefix, ttl: defaultFiredTTL}
}

// Key возвращает ключ Redis для события.
func (s *RedisFiredStore) Key(key domain.FiredKey) string {
	return s.prefix + ":" + key.String()
}

// Acquire ставит ключ через SETNX и сообщает, был ли он создан.
func (s *RedisFiredStore) Acquire(ctx context.Context, key domain.FiredKey) (bool, error) {
	start := time.Now()
	ok, err := s.client.SetNX(ctx, s.Key(key), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	metrics.ObserveNetworkRequest("redis", "setnx", s.prefix, start, err)
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}
