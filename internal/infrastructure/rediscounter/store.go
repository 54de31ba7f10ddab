// Package rediscounter backs the rate limiter with a shared Redis counter so
// every instance of the service enforces one combined limit.
package rediscounter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Increment bumps the window counter and stamps the TTL only when the key is
// new. The three commands go out in one pipeline so concurrent callers each
// observe their own distinct count.
func (s *Store) Increment(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rediscounter: incr %q: %w", key, err)
	}
	return incr.Val(), ttlCmd.Val(), nil
}
