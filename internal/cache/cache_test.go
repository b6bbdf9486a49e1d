package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    int64              `json:"id"`
	Name  string             `json:"name"`
	Probs map[string]float64 `json:"probs"`
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errStoreDown
}

func (failingStore) Delete(context.Context, ...string) error {
	return errStoreDown
}

func TestReadThrough_MissThenHit(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c := New(NewMemoryStore(), nil, metrics)

	calls := 0
	compute := func(context.Context) (payload, error) {
		calls++
		return payload{ID: 7, Name: "Centro", Probs: map[string]float64{"a": 0.25, "b": 0.75}}, nil
	}

	first, err := ReadThrough(ctx, c, "record:7", time.Minute, compute)
	require.NoError(t, err)
	second, err := ReadThrough(ctx, c, "record:7", time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "compute should run once within the TTL")
	assert.Equal(t, first, second, "cached value must round-trip unchanged")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lookups.WithLabelValues(resultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lookups.WithLabelValues(resultHit)))
}

func TestReadThrough_RecomputesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := New(NewMemoryStore().WithClock(clock.Now), nil, nil)

	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := ReadThrough(ctx, c, "k", 5*time.Second, compute)
	assert.Equal(t, 1, v)

	clock.Advance(5 * time.Second)
	v, _ = ReadThrough(ctx, c, "k", 5*time.Second, compute)
	assert.Equal(t, 2, v, "entry at expires_at must trigger recomputation")
}

func TestReadThrough_FailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, nil, nil)

	errBoom := errors.New("boom")
	_, err := ReadThrough(ctx, c, "k", time.Minute, func(context.Context) ([]string, error) {
		return nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, store.Len(), "failed computation must not poison the cache")

	got, err := ReadThrough(ctx, c, "k", time.Minute, func(context.Context) ([]string, error) {
		return []string{"ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestReadThrough_StoreDownDegradesToCompute(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetrics(prometheus.NewRegistry())
	c := New(failingStore{}, nil, metrics)

	calls := 0
	for range 2 {
		v, err := ReadThrough(ctx, c, "k", time.Minute, func(context.Context) (string, error) {
			calls++
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.lookups.WithLabelValues(resultError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.populates.WithLabelValues(resultError)))
}

func TestReadThrough_UndecodableEntryIsRecomputed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("not json"), time.Minute))
	c := New(store, nil, nil)

	v, err := ReadThrough(ctx, c, "k", time.Minute, func(context.Context) (payload, error) {
		return payload{ID: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)

	raw, ok, _ := store.Get(ctx, "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1,"name":"","probs":null}`, string(raw))
}

func TestReadThrough_ZeroTTLBypassesCache(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, nil, nil)

	calls := 0
	for range 3 {
		_, _ = ReadThrough(ctx, c, "k", 0, func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, store.Len())
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 60*time.Second, TTL(60))
	assert.Equal(t, time.Duration(0), TTL(0))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.lookup(resultHit)
	m.populate(resultOK)
	m.invalidation(MutationDelete)
}
