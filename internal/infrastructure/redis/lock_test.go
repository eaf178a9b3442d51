package redis

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLockService(t *testing.T) (*LockService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLockService(client), mr
}

func TestLockService_AcquireAndRelease(t *testing.T) {
	svc, mr := newTestLockService(t)
	ctx := context.Background()

	lock, err := svc.Acquire(ctx, "subscription_session_sess_1", 30*time.Second)
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.True(t, mr.Exists("lock:subscription_session_sess_1"))

	require.NoError(t, lock.Release(ctx))
	assert.False(t, mr.Exists("lock:subscription_session_sess_1"))
}

func TestLockService_Acquire_Contended(t *testing.T) {
	svc, _ := newTestLockService(t)
	ctx := context.Background()

	first, err := svc.Acquire(ctx, "res", 30*time.Second)
	require.NoError(t, err)

	_, err = svc.Acquire(ctx, "res", 30*time.Second)
	assert.ErrorIs(t, err, domainErrors.ErrLockNotAcquired)

	// Released lock can be re-acquired.
	require.NoError(t, first.Release(ctx))
	_, err = svc.Acquire(ctx, "res", 30*time.Second)
	assert.NoError(t, err)
}

func TestLockService_Acquire_AfterExpiry(t *testing.T) {
	svc, mr := newTestLockService(t)
	ctx := context.Background()

	_, err := svc.Acquire(ctx, "res", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(11 * time.Second)

	_, err = svc.Acquire(ctx, "res", 10*time.Second)
	assert.NoError(t, err)
}

func TestLock_Release_OnlyOwner(t *testing.T) {
	svc, mr := newTestLockService(t)
	ctx := context.Background()

	lock, err := svc.Acquire(ctx, "res", 10*time.Second)
	require.NoError(t, err)

	// Simulate expiry plus takeover by another holder.
	mr.FastForward(11 * time.Second)
	_, err = svc.Acquire(ctx, "res", 10*time.Second)
	require.NoError(t, err)

	// The stale holder's release must not delete the new holder's lease.
	err = lock.Release(ctx)
	assert.ErrorIs(t, err, domainErrors.ErrLockNotHeld)
	assert.True(t, mr.Exists("lock:res"))
}

func TestLock_Extend(t *testing.T) {
	svc, mr := newTestLockService(t)
	ctx := context.Background()

	lock, err := svc.Acquire(ctx, "res", 10*time.Second)
	require.NoError(t, err)

	require.NoError(t, lock.Extend(ctx, 30*time.Second))

	mr.FastForward(20 * time.Second)
	assert.True(t, mr.Exists("lock:res"))
}

func TestLock_Extend_Expired(t *testing.T) {
	svc, mr := newTestLockService(t)
	ctx := context.Background()

	lock, err := svc.Acquire(ctx, "res", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(11 * time.Second)

	err = lock.Extend(ctx, 30*time.Second)
	assert.ErrorIs(t, err, domainErrors.ErrLockNotHeld)
}
