package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "abacus:revoked:"
)

type (
	redisDenylist struct {
		client redis.UniversalClient
	}
)

// RedisDenylist keeps revoked token ids in redis so every instance behind a
// load balancer sees the same revocations. Keys expire together with the
// token they deny.
func RedisDenylist(client redis.UniversalClient) Denylist {
	return &redisDenylist{client: client}
}

func (r *redisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, redisKeyPrefix+tokenID, until.Unix(), ttl).Err()
}

func (r *redisDenylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
