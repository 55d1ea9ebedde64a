// Package cache provides the key/value cache used to remember resolved
// product ids between lookups, with in-memory, file and Redis backends.
package cache

import (
	"context"
	"time"
)

// Reader defines the interface for reading cache entries
type Reader interface {
	// Get returns the stored id and true if the key is present and not expired.
	// A stored 0 is a hit.
	Get(ctx context.Context, key string) (int, bool)
}

// Writer defines the interface for writing cache entries
type Writer interface {
	// Set stores value under key for ttl. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value int, ttl time.Duration) error
}

// Cache combines both cache operations
type Cache interface {
	Reader
	Writer
}
