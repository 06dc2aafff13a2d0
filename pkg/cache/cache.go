// Package cache stores raw upstream API responses.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under the user cache directory (CLI)
//   - [RedisCache]: shared cache for server deployments
//
// Keys are built with [HTTPKey] so that entries from different providers
// never collide. Values are opaque bytes; callers decide the encoding.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss with ok=false and a nil error; errors are reserved for
// backend failures. A zero ttl in Set means the entry never expires.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL is how long upstream responses are kept by default.
const DefaultTTL = 24 * time.Hour
