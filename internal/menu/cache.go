package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey holds the cached menu listing.
const CacheKey = "canteen:menu:v1"

// Cache stores the menu listing in Redis. A nil Cache is a no-op.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCache constructs a cache helper. It returns nil when client is nil or ttl is not positive.
func NewCache(client redis.UniversalClient, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Get loads the cached listing. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context) ([]Item, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, CacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// Set stores items with the configured TTL. Empty listings are not cached.
func (c *Cache) Set(ctx context.Context, items []Item) error {
	if c == nil || len(items) == 0 {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, CacheKey).Err()
}
