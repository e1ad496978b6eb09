package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

// Lister описывает часть клиента Redis для работы со списками.
type Lister interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

// RedisEventQueue публикует события азана в список Redis.
type RedisEventQueue struct {
	client Lister
	key    string
	maxLen int64
}

var _ domain.EventPublisher = (*RedisEventQueue)(nil)

// NewRedisEventQueue создаёт очередь по указанному ключу.
func NewRedisEventQueue(client Lister, key string) *RedisEventQueue {
	if key == "" {
		key = "hilal:events"
	}
	return &RedisEventQueue{client: client, key: key, maxLen: 1000}
}

// Name возвращает имя приёмника.
func (q *RedisEventQueue) Name() string { return "redis" }

// Publish кладёт событие в голову списка и обрезает хвост, чтобы список не рос без читателя.
func (q *RedisEventQueue) Publish(ctx context.Context, event domain.AdhanEvent) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("redis", "lpush", q.key, start, err)
	}()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	if err := q.client.LTrim(ctx, q.key, 0, q.maxLen-1).Err(); err != nil {
		return fmt.Errorf("trim events: %w", err)
	}
	return nil
}
