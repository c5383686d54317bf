package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis defaults
const (
	DefaultKeyPrefix = "docsynth:quotation-seq:"
	// DefaultTTL keeps a day's counter around long enough to survive clock skew
	DefaultTTL = 48 * time.Hour
)

// Redis is a Source backed by INCR on one key per day
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the Redis server at url, e.g. redis://localhost:6379/0
func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(opt)), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: DefaultKeyPrefix, ttl: DefaultTTL}
}

// Key returns the counter key for day
func (r *Redis) Key(day time.Time) string {
	return r.prefix + dayKey(day)
}

// Next implements Source
func (r *Redis) Next(ctx context.Context, day time.Time) (int64, error) {
	key := r.Key(day)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Ping checks that the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
