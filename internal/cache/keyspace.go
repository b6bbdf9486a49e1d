package cache

import (
	"context"
	"fmt"
)

// MutationKind identifies a backing-store write.
type MutationKind int

const (
	MutationInsert MutationKind = iota
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return fmt.Sprintf("mutation(%d)", int(k))
	}
}

// Keyspace names the cache keys derived from one backing-store table: a single
// collection key holding every record and one key per record id.
type Keyspace struct {
	Collection string // e.g. "records:all"
	ItemPrefix string // e.g. "record", keys become "record:{id}"
}

// CollectionKey returns the "all records" key.
func (k Keyspace) CollectionKey() string {
	return k.Collection
}

// ItemKey returns the per-record key for id.
func (k Keyspace) ItemKey(id int64) string {
	return fmt.Sprintf("%s:%d", k.ItemPrefix, id)
}

// KeysFor returns every key a mutation of the given kind could have made stale.
// Inserts touch only the collection; updates and deletes also touch the record key.
func (k Keyspace) KeysFor(kind MutationKind, id int64) []string {
	switch kind {
	case MutationUpdate, MutationDelete:
		return []string{k.CollectionKey(), k.ItemKey(id)}
	default:
		return []string{k.CollectionKey()}
	}
}

// InvalidateAfterMutation deletes the keys made stale by a confirmed write. Call it
// only after the backing store accepted the write. It is idempotent, and a store
// failure is logged rather than returned.
func (c *Cache) InvalidateAfterMutation(ctx context.Context, ks Keyspace, kind MutationKind, id int64) {
	keys := ks.KeysFor(kind, id)
	c.metrics.invalidation(kind)
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Error("cache invalidation failed, entries may stay stale until TTL",
			"mutation", kind.String(), "keys", keys, "error", err)
		return
	}
	c.logger.Debug("cache invalidated", "mutation", kind.String(), "keys", keys)
}
