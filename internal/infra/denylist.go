package infra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rolloutlog.com/internal/domain"
)

// Key prefix for revoked session tokens.
const denylistKeyPrefix = "session:revoked:"

// RedisDenylist keeps revoked token jtis in Redis. Entries carry a TTL equal
// to the token's remaining lifetime, so the list stays bounded by the 1-hour
// token expiry.
type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}
	return d.rdb.Set(ctx, denylistKeyPrefix+jti, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.rdb.Get(ctx, denylistKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ domain.TokenDenylist = (*RedisDenylist)(nil)
