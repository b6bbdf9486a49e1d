package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeyspace = Keyspace{Collection: "records:all", ItemPrefix: "record"}

func TestKeyspace_KeysFor(t *testing.T) {
	tests := []struct {
		kind MutationKind
		id   int64
		want []string
	}{
		{MutationInsert, 0, []string{"records:all"}},
		{MutationUpdate, 12, []string{"records:all", "record:12"}},
		{MutationDelete, 3, []string{"records:all", "record:3"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, testKeyspace.KeysFor(tt.kind, tt.id))
		})
	}
}

func TestMutationKind_String(t *testing.T) {
	assert.Equal(t, "insert", MutationInsert.String())
	assert.Equal(t, "mutation(9)", MutationKind(9).String())
}

func seed(t *testing.T, store Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, store.Set(context.Background(), key, []byte(`"v"`), time.Minute))
	}
}

func present(store Store, key string) bool {
	_, ok, _ := store.Get(context.Background(), key)
	return ok
}

func TestInvalidateAfterMutation(t *testing.T) {
	ctx := context.Background()

	t.Run("insert keeps record keys", func(t *testing.T) {
		store := NewMemoryStore()
		seed(t, store, "records:all", "record:1")
		New(store, nil, nil).InvalidateAfterMutation(ctx, testKeyspace, MutationInsert, 0)

		assert.False(t, present(store, "records:all"))
		assert.True(t, present(store, "record:1"))
	})

	t.Run("delete drops collection and record", func(t *testing.T) {
		store := NewMemoryStore()
		seed(t, store, "records:all", "record:1", "record:2")
		New(store, nil, nil).InvalidateAfterMutation(ctx, testKeyspace, MutationDelete, 1)

		assert.False(t, present(store, "records:all"))
		assert.False(t, present(store, "record:1"))
		assert.True(t, present(store, "record:2"))
	})

	t.Run("idempotent", func(t *testing.T) {
		store := NewMemoryStore()
		seed(t, store, "records:all", "record:5", "record:6")
		c := New(store, nil, nil)

		c.InvalidateAfterMutation(ctx, testKeyspace, MutationUpdate, 5)
		afterOnce := store.Len()
		c.InvalidateAfterMutation(ctx, testKeyspace, MutationUpdate, 5)

		assert.Equal(t, afterOnce, store.Len())
		assert.Equal(t, 1, store.Len())
		assert.True(t, present(store, "record:6"))
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		New(failingStore{}, nil, metrics).InvalidateAfterMutation(ctx, testKeyspace, MutationDelete, 1)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.invalidations.WithLabelValues("delete")))
	})
}
