// Package cache stores intermediate tool artifacts between runs.
//
// Running a control tool on a large network can take hours, so the raw
// output of every run is memoized under a key derived from everything that
// influences it (see [ToolKey]). Backends:
//
//   - [FileCache]: one JSON file per entry under a cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for clusters running many instances
//   - [NullCache]: disables caching (--no-cache)
//
// [Scoped] prefixes keys so several experiments can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear drops all entries of c if it supports it, and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}
