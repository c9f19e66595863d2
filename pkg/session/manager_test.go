package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/session"
)

func TestManager_SerializesSameKey(t *testing.T) {
	m := session.NewManager()
	ctx := context.Background()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "conversation/web/c1", func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "critical sections for one key must not overlap")
}

func TestManager_DistinctKeysRunConcurrently(t *testing.T) {
	m := session.NewManager()
	ctx := context.Background()

	holdA := make(chan struct{})
	aHeld := make(chan struct{})

	go func() {
		_ = m.WithLock(ctx, "conversation/web/a", func(ctx context.Context) error {
			close(aHeld)
			<-holdA
			return nil
		})
	}()

	<-aHeld
	done := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "conversation/web/b", func(ctx context.Context) error {
			close(done)
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for a different key should not block")
	}
	close(holdA)
}

func TestManager_LockEntriesAreReclaimed(t *testing.T) {
	m := session.NewManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock(ctx, "conversation/web/c1", func(ctx context.Context) error {
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, m.ActiveLocks(), "refcounted entries must be garbage collected")
}

func TestManager_PropagatesCallbackError(t *testing.T) {
	m := session.NewManager()
	sentinel := errors.New("turn failed")

	err := m.WithLock(context.Background(), "k", func(ctx context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

// recordingLocker counts distributed acquire and release pairs.
type recordingLocker struct {
	mu       sync.Mutex
	acquires int
	releases int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.acquires++
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.releases++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLockerIsPaired(t *testing.T) {
	locker := &recordingLocker{}
	m := session.NewManager(session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, m.WithLock(ctx, "k", func(ctx context.Context) error { return nil }))
	require.NoError(t, m.WithLock(ctx, "k", func(ctx context.Context) error { return nil }))

	assert.Equal(t, 2, locker.acquires)
	assert.Equal(t, 2, locker.releases)
}
