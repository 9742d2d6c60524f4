package cache

import (
	"context"
	"time"
)

// ScopedCache wraps a backend with a key prefix so multiple consumers can
// share one store without colliding. The registry clients use this to keep
// AUR and official-repo responses in separate namespaces within the same
// file or Redis backend.
//
// Example usage:
//
//	backend, _ := cache.NewFileCache(dir)
//	aurCache := cache.NewScoped(backend, "aur:")
//	officialCache := cache.NewScoped(backend, "official:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScoped wraps a backend with a key prefix. A nil backend falls back to
// NullCache.
func NewScoped(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close is a no-op; the wrapped backend is shared and closed by its owner.
func (c *ScopedCache) Close() error { return nil }

// Ensure ScopedCache implements Cache.
var _ Cache = (*ScopedCache)(nil)
