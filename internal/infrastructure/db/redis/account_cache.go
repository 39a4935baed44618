package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devmatch/account-service/internal/core/domain"
)

const (
	keyPrefix = "account:"

	// tombstone replaces an invalidated entry so a lookup that read the
	// account before the change cannot cache it again. It outlives the
	// store timeouts bounding that read.
	tombstone    = "-"
	tombstoneTTL = 30 * time.Second
)

// AccountCache stores live accounts as JSON under account:<id>.
// The password hash is never written (domain.Account omits it from JSON).
type AccountCache struct {
	client *redis.Client
}

func NewAccountCache(client *redis.Client) *AccountCache {
	return &AccountCache{client: client}
}

func (c *AccountCache) Get(ctx context.Context, id string) (*domain.Account, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if string(raw) == tombstone {
		return nil, false, nil
	}

	var a domain.Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &a, true, nil
}

// Set caches account for ttl unless the key is already held, either by a
// cached copy or by an invalidation tombstone. Deleted accounts are never cached.
func (c *AccountCache) Set(ctx context.Context, a *domain.Account, ttl time.Duration) error {
	if a == nil || a.IsDeleted() || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	err = c.client.SetArgs(ctx, c.key(a.ID), raw, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached copy and leaves a tombstone in its place.
func (c *AccountCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Set(ctx, c.key(id), tombstone, tombstoneTTL).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *AccountCache) key(id string) string {
	return keyPrefix + id
}
