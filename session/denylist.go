package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

type (
	// Denylist keeps the ids of tokens that were revoked before
	// their natural expiry.
	Denylist interface {
		Revoke(ctx context.Context, tokenID string, until time.Time) error
		Revoked(ctx context.Context, tokenID string) (bool, error)
	}

	memDenylist struct {
		cache *bigcache.BigCache
		now   func() time.Time
	}

	xxhasher struct{}
)

func (xxhasher) Sum64(key string) uint64 {
	return xxhash.Sum64String(key)
}

// InMemoryDenylist keeps revocations for lifeWindow, which should be at
// least as long as the token TTL. Entries are lost when the process restarts.
func InMemoryDenylist(ctx context.Context, lifeWindow time.Duration) (Denylist, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = time.Minute
	cfg.Hasher = xxhasher{}
	cfg.Verbose = false
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("session: unable to create denylist, cause %w", err)
	}
	return &memDenylist{cache: cache, now: time.Now}, nil
}

func (m *memDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(until.Unix()))
	return m.cache.Set(tokenID, buf[:])
}

func (m *memDenylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	buf, err := m.cache.Get(tokenID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if len(buf) != 8 {
		return true, nil
	}
	until := time.Unix(int64(binary.BigEndian.Uint64(buf)), 0)
	return m.now().Before(until), nil
}
