package subscription

import (
	"context"
	"time"
)

// TransactionManager defines the interface for transaction management.
// This is an application-layer port, not a domain concern.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker grants named, lease-based locks. Acquire fails with
// ErrLockNotAcquired when the resource is held elsewhere.
type Locker interface {
	Acquire(ctx context.Context, resource string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock. Release is best-effort; expiry is the backstop.
type Lease interface {
	Release(ctx context.Context) error
}
