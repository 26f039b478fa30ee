// Package cache stores fetched media sources and rendered artifacts.
//
// Backends:
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer] so that callers never build key strings by hand.
// Use [NewScopedKeyer] to isolate the keys of one project or tenant.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the stored bytes and true on a hit. Expired or corrupt
	// entries are reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Default entry lifetimes.
const (
	// TTLSource is how long fetched remote media stays cached.
	TTLSource = 24 * time.Hour

	// TTLArtifact is how long rendered frames stay cached. Artifacts are
	// keyed by content hash, so they never go stale.
	TTLArtifact = 7 * 24 * time.Hour
)
