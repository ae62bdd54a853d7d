package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotAcquired = errors.New("lock is held by another owner")

// ReleaseFunc frees a held lock.
type ReleaseFunc func(ctx context.Context) error

// Locker hands out exclusive, expiring locks keyed by name.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

// NoopLocker always succeeds. Used when Redis is not configured; the slip
// store's unique index still prevents duplicates.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
