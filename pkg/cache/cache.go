// Package cache stores computed layouts and rendered artifacts.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs. Keys are produced by a [Keyer] from a content hash of
// the input graph plus every option that affects the output, so a changed
// graph or configuration never returns a stale layout.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [BadgerCache]: embedded Badger key/value store
//   - [RedisCache]: shared Redis server
//   - [MongoCache]: MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// Cache failures are never fatal to callers; the pipeline treats any error
// as a miss and recomputes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a key/value store with expiring entries.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// GetJSON loads key and decodes it into v. A malformed entry is deleted
// and reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
