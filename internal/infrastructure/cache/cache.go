// Package cache provides the best-effort key-value side cache used by
// the repositories. Cache failures never propagate to callers: a failed
// lookup degrades to a store read, a failed write is dropped.
package cache

import (
	"context"
	"time"
)

const (
	// HotTTL bounds single-entity cache entries.
	HotTTL = 5 * time.Minute
	// LiveTTL bounds cached filter result sets, which invalidate less
	// precisely than single-entity reads.
	LiveTTL = 10 * time.Second
)

// Cache is the side-cache contract. Implementations swallow their own
// failures; Get reports a miss on any internal error.
type Cache interface {
	// Get unmarshals the cached value into dest and reports a hit.
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value under key with a TTL ceiling.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Invalidate removes key.
	Invalidate(ctx context.Context, key string)
}
