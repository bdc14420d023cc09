package attendance

import (
	"context"
	"errors"
	"time"

	attendanceerrors "go-farmops/internal/attendance/errors"

	"github.com/bsm/redislock"
)

// Locker serialises bulk close runs across API instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock. Refresh extends it by ttl and fails once another
// holder may have taken over.
type Lease interface {
	Refresh(ctx context.Context, ttl time.Duration) error
	Release()
}

type redisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client *redislock.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, attendanceerrors.ErrBulkCloseInProgress
		}
		return nil, err
	}
	return &redisLease{lock: lock}, nil
}

type redisLease struct {
	lock *redislock.Lock
}

func (l *redisLease) Refresh(ctx context.Context, ttl time.Duration) error {
	if err := l.lock.Refresh(ctx, ttl, nil); err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return attendanceerrors.ErrBulkCloseLockLost
		}
		return err
	}
	return nil
}

func (l *redisLease) Release() {
	_ = l.lock.Release(context.Background())
}
