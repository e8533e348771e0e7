package runlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"deliveryingest/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKey is the Redis key guarding ingestion runs.
	DefaultKey = "deliveryingest:ingestion:run-lock"

	releaseTimeout = 5 * time.Second
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a lease-based lock: a crashed holder loses it after ttl.
type RedisLock struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.RunLock = (*RedisLock)(nil)

// NewRedisLock creates a lock on key. ttl must cover the longest expected run.
func NewRedisLock(client redis.UniversalClient, key string, ttl time.Duration, logger *slog.Logger) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive, got %s", ttl)
	}
	if key == "" {
		key = DefaultKey
	}

	return &RedisLock{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger.With("component", "redis_run_lock"),
	}, nil
}

// TryAcquire sets the key with a fresh token if it is absent.
func (l *RedisLock) TryAcquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire run lock %s: %w", l.key, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
			l.logger.ErrorContext(releaseCtx, "Failed to release run lock", "key", l.key, "error", err)
		}
	}
	return release, true, nil
}
