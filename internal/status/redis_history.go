package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix = "status-history"
	defaultSession   = "default"
)

// RedisHistory keeps the undo slot under status-history:{session}:{id} and
// lets it expire with the session.
type RedisHistory struct {
	client  redis.Cmdable
	session string
	ttl     time.Duration
}

func NewRedisHistory(client redis.Cmdable, sessionID string, ttl time.Duration) *RedisHistory {
	if sessionID == "" {
		sessionID = defaultSession
	}
	return &RedisHistory{client: client, session: sessionID, ttl: ttl}
}

func (r *RedisHistory) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", historyKeyPrefix, r.session, id)
}

func (r *RedisHistory) Get(ctx context.Context, key string) (models.Status, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", r.key(key), err)
	}

	st, err := models.ParseStatus(val)
	if err != nil {
		return "", false, fmt.Errorf("corrupt history entry %s: %w", r.key(key), err)
	}
	return st, true, nil
}

func (r *RedisHistory) Set(ctx context.Context, key string, previous models.Status) error {
	if err := r.client.Set(ctx, r.key(key), string(previous), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key(key), err)
	}
	return nil
}

func (r *RedisHistory) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key(key), err)
	}
	return nil
}

// RedisHistoryFor scopes each session to its own key namespace on client.
func RedisHistoryFor(client redis.Cmdable, ttl time.Duration) HistoryFor {
	return func(sessionID string) HistoryStore {
		return NewRedisHistory(client, sessionID, ttl)
	}
}
