package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL keeps abandoned sessions from living forever. A finished or
// active session refreshes the TTL on every save.
const snapshotTTL = 30 * 24 * time.Hour

// RedisAdapter persists wizard snapshots in Redis, so sessions survive both
// restarts and horizontal scaling.
type RedisAdapter struct {
	client *redis.Client
	prefix string
}

var _ PersistenceAdapter = (*RedisAdapter)(nil)

// NewRedisAdapter wraps an existing client. Keys are namespaced under prefix.
func NewRedisAdapter(client *redis.Client, prefix string) *RedisAdapter {
	if prefix == "" {
		prefix = "wizard"
	}
	return &RedisAdapter{client: client, prefix: prefix}
}

func (a *RedisAdapter) key(key string) string {
	return a.prefix + ":" + key
}

func (a *RedisAdapter) Save(ctx context.Context, key string, blob []byte) error {
	return a.client.Set(ctx, a.key(key), blob, snapshotTTL).Err()
}

func (a *RedisAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	blob, err := a.client.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Del(ctx, a.key(key)).Err()
}
