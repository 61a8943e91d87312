/* redis.go
 * Redis backed Remote, so replicas of the bot and web server share parse results
 */

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrMiss is returned by a Remote when no value is stored under the key
	ErrMiss = errors.New("cache miss")
	// ErrRedisNotReady is returned when Redis cannot be reached after every attempt
	ErrRedisNotReady = errors.New("redis is not ready")
)

// connectAttempts is the number of pings tried before giving up on Redis
const connectAttempts = 3

// Connect parses redisURL, then pings the server until it answers or the attempts run out.
// Preconditions: receives a redis:// or rediss:// URL
// Postconditions: returns a connected client, or an error wrapping ErrRedisNotReady
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var pingErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		client := redis.NewClient(opts)
		if pingErr = client.Ping(ctx).Err(); pingErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		}
	}
	return nil, errors.Join(ErrRedisNotReady, pingErr)
}

// RedisRemote stores encoded results in Redis under a key prefix
type RedisRemote struct {
	client redis.Cmdable
	prefix string
}

// NewRedisRemote wraps a client. An empty prefix defaults to "scoreline:".
func NewRedisRemote(client redis.Cmdable, prefix string) *RedisRemote {
	if prefix == "" {
		prefix = "scoreline:"
	}
	return &RedisRemote{client: client, prefix: prefix}
}

// Load fetches the bytes stored under key
func (r *RedisRemote) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Store writes value under key with the given expiry; a zero ttl keeps it forever
func (r *RedisRemote) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
