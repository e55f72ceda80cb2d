package shardmap

import "sync/atomic"

// MutableMap is a sharded map safe for concurrent use by multiple
// goroutines.
//
// Each call locks exactly one shard, except ClearAtomic and Freeze which
// lock all of them in ascending order.
type MutableMap[K comparable, V any] struct {
	ShardMap[K, V, *LockedTable[K, V]]

	frozen atomic.Bool
}

// NewMutable returns an empty mutable map.
func NewMutable[K comparable, V any](opts ...Option) *MutableMap[K, V] {
	o := buildOptions(opts)
	clone := clonerFor[V](o)

	m := &MutableMap[K, V]{}
	m.init(func() *LockedTable[K, V] { return NewLockedTable[K, V](clone) }, o)

	return m
}

// Get returns a copy of the value for the given key.
//
// Returns the zero value and false if the key is not found.
func (m *MutableMap[K, V]) Get(k K) (V, bool) {
	return m.shard(k).Get(k)
}

// Insert stores (k, v) and returns the previous value, if any.
//
// The entry is visible to every caller once Insert returns.
func (m *MutableMap[K, V]) Insert(k K, v V) (V, bool) {
	return m.shard(k).Insert(k, v)
}

// Remove deletes the entry for k and returns its value, if any.
func (m *MutableMap[K, V]) Remove(k K) (V, bool) {
	return m.shard(k).Remove(k)
}

// GetOrInsert returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
//
// The loaded result is true if the value was loaded, false if stored.
func (m *MutableMap[K, V]) GetOrInsert(k K, v V) (actual V, loaded bool) {
	return m.shard(k).GetOrInsert(k, v)
}

// Update atomically replaces the value for k with fn(current, exists).
//
// fn runs with the shard lock held and must not call back into m.
func (m *MutableMap[K, V]) Update(k K, fn func(v V, exists bool) V) V {
	return m.shard(k).Update(k, fn)
}

// Clear removes all entries, one shard at a time.
//
// A concurrent reader may see some shards cleared and others not yet.
// Use ClearAtomic when that is not acceptable.
func (m *MutableMap[K, V]) Clear() {
	for _, s := range m.shards {
		s.Clear()
	}
}

// ClearAtomic removes all entries while holding every shard lock, so no
// caller observes a partially cleared map.
func (m *MutableMap[K, V]) ClearAtomic() {
	unlock := m.lockAll()
	defer unlock()

	for i, s := range m.shards {
		if err := s.check(); err != nil {
			panic(shardError(i, err))
		}
	}
	for _, s := range m.shards {
		s.clearLocked()
	}
}

// Freeze converts m into a read-only [Map] with the same shards.
//
// Each shard's table is moved into the result without rehashing. If any
// shard is poisoned, Freeze returns an error wrapping [ErrPoisoned] and m
// is left unchanged. On success m is consumed: later calls on it panic
// with [ErrFrozen], and a second Freeze returns ErrFrozen.
func (m *MutableMap[K, V]) Freeze() (*Map[K, V], error) {
	if !m.frozen.CompareAndSwap(false, true) {
		return nil, ErrFrozen
	}

	unlock := m.lockAll()
	defer unlock()

	for i, s := range m.shards {
		if s.poisoned {
			m.frozen.Store(false)

			return nil, shardError(i, ErrPoisoned)
		}
	}

	frozen := &Map[K, V]{}
	frozen.shards = make([]Table[K, V], len(m.shards))
	for i, s := range m.shards {
		frozen.shards[i] = s.detach()
	}
	frozen.mask = m.mask
	frozen.hash = m.hash

	return frozen, nil
}

// lockAll locks every shard in index order and returns the matching unlock.
func (m *MutableMap[K, V]) lockAll() (unlock func()) {
	for _, s := range m.shards {
		s.mu.Lock()
	}

	return func() {
		for i := len(m.shards) - 1; i >= 0; i-- {
			m.shards[i].mu.Unlock()
		}
	}
}
