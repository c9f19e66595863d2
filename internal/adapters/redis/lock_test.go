package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/redis"
)

func newTestLocker(t *testing.T) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewLocker(client, "botplayground:"), mr
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "conversation/web/c1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// Released lock can be taken again immediately.
	unlock, err = locker.Lock(ctx, "conversation/web/c1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_HeldLockBlocksUntilTimeout(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "conversation/web/c1", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(waitCtx, "conversation/web/c1", time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ExpiredHolderCannotReleaseNewLock(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "conversation/web/c1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "conversation/web/c1", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	// The stale holder's release is a no-op against the new owner's lock.
	require.NoError(t, staleUnlock(ctx))

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "conversation/web/c1", time.Minute)
	assert.Error(t, err)
}

func TestLocker_DistinctKeysDoNotContend(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "conversation/web/c1", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	unlockB, err := locker.Lock(ctx, "conversation/web/c2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
