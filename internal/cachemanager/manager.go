// Package cachemanager provides TTL caches for values that are expensive to
// fetch from git but never change once fetched, such as commit metadata.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a keyed cache with per-entry expiry.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Flush(ctx context.Context) error
	Len() int
}
