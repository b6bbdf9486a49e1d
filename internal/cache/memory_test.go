package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ExpiryBoundaryIsExclusive(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Second))

	clock.Advance(10*time.Second - time.Nanosecond)
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok, "entry should be fresh just before expires_at")

	clock.Advance(time.Nanosecond)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok, "entry exactly at expires_at must be treated as expired")
	assert.Equal(t, 0, store.Len(), "expired entry should be dropped on read")
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "original", string(again))
}

func TestMemoryStore_NonPositiveTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "zero", []byte("v"), 0))
	require.NoError(t, store.Set(ctx, "negative", []byte("v"), -time.Second))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, store.Delete(ctx, "a", "never-set"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.True(t, ok)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)

	require.NoError(t, store.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, store.Set(ctx, "long", []byte("2"), time.Hour))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value := []byte{byte(i)}
			_ = store.Set(ctx, "shared", value, time.Minute)
			got, ok, err := store.Get(ctx, "shared")
			if err != nil || !ok || len(got) != 1 {
				t.Errorf("observed partial entry: ok=%v len=%d err=%v", ok, len(got), err)
			}
		}()
	}
	wg.Wait()
}
