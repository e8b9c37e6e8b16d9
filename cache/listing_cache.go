package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * time.Second

// ListingCache is a read-through cache for rendered listing payloads. A nil
// receiver (no redis configured) disables it; every method is nil-safe so
// callers never branch on availability.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client) *ListingCache {
	if rdb == nil {
		return nil
	}
	return &ListingCache{rdb: rdb, ttl: defaultTTL}
}

func key(tenantID, listingID string) string {
	return fmt.Sprintf("exchange:listing:%s:%s", tenantID, listingID)
}

func (c *ListingCache) Get(ctx context.Context, tenantID, listingID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, key(tenantID, listingID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("listing cache read failed", slog.Any("error", err))
		}
		return nil, false
	}
	return payload, true
}

func (c *ListingCache) Set(ctx context.Context, tenantID, listingID string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key(tenantID, listingID), payload, c.ttl).Err(); err != nil {
		slog.Warn("listing cache write failed", slog.Any("error", err))
	}
}

func (c *ListingCache) Invalidate(ctx context.Context, tenantID, listingID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(tenantID, listingID)).Err(); err != nil {
		slog.Warn("listing cache invalidation failed", slog.Any("error", err))
	}
}
