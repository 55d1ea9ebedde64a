package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores ids in a Redis server. Keys are used verbatim.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server at addr
func NewRedis(addr string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}))
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping checks the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get implements Reader. Connection errors read as a miss.
func (r *Redis) Get(ctx context.Context, key string) (int, bool) {
	v, err := r.client.Get(ctx, key).Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Set implements Writer
func (r *Redis) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Cache = (*Redis)(nil)
