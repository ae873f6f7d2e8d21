package cache

import (
	"context"
	"time"
)

// Scoped prefixes every key of an underlying cache, so that several
// experiments can share one backend without colliding.
//
//	shared, _ := cache.NewRedisCache(ctx, url)
//	c := cache.NewScoped(shared, "experiments/bench:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner with a key prefix. A nil inner selects NullCache.
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NullCache{}
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
