// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"directory-service/internal/domain/region"
	"directory-service/internal/domain/venue"

	"github.com/redis/go-redis/v9"
)

const (
	venuePrefix = "directory:venue:"
	regionsKey  = "directory:regions"
)

// Cache is a read-through helper over Redis. A miss returns (nil, nil).
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) GetVenue(ctx context.Context, slug string) (*venue.Venue, error) {
	var v venue.Venue
	ok, err := c.getJSON(ctx, venuePrefix+slug, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (c *Cache) SetVenue(ctx context.Context, v *venue.Venue) error {
	return c.setJSON(ctx, venuePrefix+v.Slug, v)
}

func (c *Cache) InvalidateVenue(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = venuePrefix + s
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate venue cache: %w", err)
	}
	return nil
}

func (c *Cache) GetRegions(ctx context.Context) ([]region.Region, error) {
	var regions []region.Region
	ok, err := c.getJSON(ctx, regionsKey, &regions)
	if err != nil || !ok {
		return nil, err
	}
	return regions, nil
}

func (c *Cache) SetRegions(ctx context.Context, regions []region.Region) error {
	return c.setJSON(ctx, regionsKey, regions)
}

// ========== Helper Methods ==========

func (c *Cache) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A stale or foreign payload counts as a miss and is dropped.
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}
