// Package cache provides pluggable storage backends for registry responses.
//
// The CLI uses FileCache under the user's cache directory so repeated
// dependency lookups don't hammer the AUR and official registry APIs.
// RedisCache serves shared runners where build jobs on different machines
// benefit from a common cache. NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found; expired entries are treated as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero or negative TTL
	// stores the value without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
