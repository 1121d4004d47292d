package cmdflags

import (
	"context"
	"fmt"

	"github.com/andrebq/abacus/session"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func RedisURL(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "redis-url",
		Usage:       "When set, revoked sessions are shared through redis instead of kept in memory (eg.: redis://localhost:6379/0)",
		EnvVars:     []string{"ABACUS_REDIS_URL"},
		Value:       *out,
		Destination: out,
	}
}

// OpenDenylist returns the denylist selected by redisURL and a function
// to release it.
func OpenDenylist(ctx context.Context, redisURL string) (session.Denylist, func() error, error) {
	if len(redisURL) == 0 {
		deny, err := session.InMemoryDenylist(ctx, session.DefaultTTL)
		return deny, func() error { return nil }, err
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("cmdflags: invalid redis url, cause %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("cmdflags: unable to reach redis at %v, cause %w", opts.Addr, err)
	}
	return session.RedisDenylist(client), client.Close, nil
}
