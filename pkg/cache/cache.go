// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything, for tests and --no-cache
//
// # Keys
//
// A [Keyer] derives keys from content hashes plus the options that affect
// the output, so identical inputs share entries:
//
//	keyer := cache.NewDefaultKeyer()
//	lk := keyer.LayoutKey(cache.Hash(specBytes), cache.LayoutKeyOpts{RankDir: "LR"})
//	ak := keyer.ArtifactKey(cache.Hash(layoutBytes), cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// LayoutTTL bounds how long a computed layout is reused.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL bounds how long a rendered artifact is reused.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
