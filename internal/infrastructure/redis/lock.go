package redis

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// Lua script for safe lock release (only owner can release)
	releaseLockScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	// Lua script for lock extension
	extendLockScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
)

// LockService grants lease-based named locks backed by Redis SET NX EX.
// The lease expiry bounds the damage from a crashed holder; it is not a
// fencing token, so the guarded mutation must itself be idempotent.
type LockService struct {
	client *redis.Client
}

func NewLockService(client *redis.Client) *LockService {
	return &LockService{client: client}
}

// Acquire attempts to take the named lease. It returns ErrLockNotAcquired
// when another holder owns the resource; callers must treat that as a
// retryable failure and must not enter the critical section.
func (s *LockService) Acquire(ctx context.Context, resource string, ttl time.Duration) (*Lock, error) {
	l := &Lock{
		client: s.client,
		key:    fmt.Sprintf("lock:%s", resource),
		value:  uuid.New().String(),
		ttl:    ttl,
	}

	ok, err := s.client.SetNX(ctx, l.key, l.value, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %q: %w", resource, err)
	}
	if !ok {
		return nil, domainErrors.ErrLockNotAcquired
	}
	return l, nil
}

// Lock is a held lease. Release is best-effort; an unreleased lease lapses
// when its TTL expires.
type Lock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// Extend pushes the lease expiry out by additionalTTL.
func (l *Lock) Extend(ctx context.Context, additionalTTL time.Duration) error {
	result, err := extendLockScript.Run(
		ctx,
		l.client,
		[]string{l.key},
		l.value,
		additionalTTL.Milliseconds(),
	).Result()
	if err != nil {
		return fmt.Errorf("extend lock: %w", err)
	}

	if val, ok := result.(int64); !ok || val == 0 {
		return domainErrors.ErrLockNotHeld
	}
	return nil
}

// Release gives up the lease. Only the owner's token can delete the key, so
// releasing after expiry never clobbers a newer holder.
func (l *Lock) Release(ctx context.Context) error {
	result, err := releaseLockScript.Run(
		ctx,
		l.client,
		[]string{l.key},
		l.value,
	).Result()
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	if val, ok := result.(int64); !ok || val == 0 {
		return domainErrors.ErrLockNotHeld
	}
	return nil
}
