package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/barguni/auth/pkg/cache"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newMemory[V any](t *testing.T, opts ...cache.MemoryOption) *cache.Memory[V] {
	t.Helper()
	m := cache.NewMemory[V](append([]cache.MemoryOption{cache.WithCleanupInterval(0)}, opts...)...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMemory[string](t)

	_, err := m.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	require.NoError(t, m.Set(ctx, "k", "v2", time.Minute))
	v, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newMemory[int](t, cache.WithClock(clk.now), cache.WithDefaultTTL(time.Minute))

	require.NoError(t, m.Set(ctx, "default", 1, 0))
	require.NoError(t, m.Set(ctx, "short", 2, 10*time.Second))
	require.NoError(t, m.Set(ctx, "forever", 3, -1))

	clk.advance(30 * time.Second)
	_, err := m.Get(ctx, "short")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = m.Get(ctx, "default")
	require.NoError(t, err)

	clk.advance(time.Hour)
	_, err = m.Get(ctx, "default")
	require.ErrorIs(t, err, cache.ErrNotFound)
	v, err := m.Get(ctx, "forever")
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestMemory_TakeOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMemory[string](t)
	require.NoError(t, m.Set(ctx, "state", "KAKAO", time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Take(ctx, "state"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
	require.Zero(t, m.Len())
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMemory[int](t, cache.WithMaxEntries(2))

	require.NoError(t, m.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, m.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, m.Set(ctx, "c", 3, time.Minute))

	require.Equal(t, 2, m.Len())
	_, err := m.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = m.Get(ctx, "c")
	require.NoError(t, err)
}

func TestMemory_Janitor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Set(ctx, "k", 1, time.Millisecond))
	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := cache.NewMemory[int]()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	require.ErrorIs(t, m.Set(ctx, "k", 1, 0), cache.ErrClosed)
	_, err := m.Take(ctx, "k")
	require.ErrorIs(t, err, cache.ErrClosed)
}
