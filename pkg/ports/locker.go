package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates turn processing for the same conversation
// across replicas. The session manager holds the lock for the duration of
// load → engine → save, closing the concurrent-overwrite window.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is cancelled.
	// The returned UnlockFunc MUST be called to release the lock; the TTL
	// bounds how long a crashed holder can block others.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
