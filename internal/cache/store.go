// Package cache implements the read-through, write-invalidated cache that sits in
// front of the backing store and the face-analysis results.
//
// Values are stored as JSON so any client of the cache server can decode them.
// Store implementations must make Set and Delete atomic per key: a concurrent Get
// sees either the previous entry or the new one, never a partial write.
package cache

import (
	"context"
	"time"
)

// Store is the key-value collaborator behind the cache.
type Store interface {
	// Get returns the stored bytes for key. ok is false when the key is absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
