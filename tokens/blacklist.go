package tokens

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist records revoked-but-unexpired access tokens. Entries carry a TTL
// equal to the token's remaining lifetime, so purging dead entries needs no
// sweeper.
type Blacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

const blacklistKeyPrefix = "token:blacklist:"

// RedisBlacklist stores revoked tokens in Redis.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist wraps an open Redis client.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	count, err := b.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
