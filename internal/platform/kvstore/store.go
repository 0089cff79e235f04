// Package kvstore is the counter/cache store used for quota windows and cached schedules.
// All operations are single-key and atomic.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// IncrWithExpiry increments key and, when this increment created the counter, sets its
	// expiry to ttl. It returns the post-increment value.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// TTL returns the remaining lifetime of key, or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}
