package shardmap

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var _ MutableInnerMap[string, int] = (*LockedTable[string, int])(nil)

// LockedTable is a [Table] guarded by a mutex.
//
// Every method locks once and unlocks before returning. A panic while the
// lock is held poisons the table; see [ErrPoisoned].
type LockedTable[K comparable, V any] struct {
	mu sync.Mutex

	// stats (hits computed as getCalls - misses)
	getCalls    uint64
	insertCalls uint64
	misses      uint64
	removes     uint64
	clears      uint64

	entries  Table[K, V]
	clone    func(V) V
	poisoned bool
	frozen   bool
}

// NewLockedTable returns an empty table. clone copies values handed out by
// Get; nil means plain assignment.
func NewLockedTable[K comparable, V any](clone func(V) V) *LockedTable[K, V] {
	return &LockedTable[K, V]{
		entries: make(Table[K, V]),
		clone:   clone,
	}
}

// lock acquires the mutex and panics if the table is no longer usable.
func (t *LockedTable[K, V]) lock() {
	t.mu.Lock()
	if err := t.check(); err != nil {
		t.mu.Unlock()
		panic(err)
	}
}

// unlock must be deferred directly so that it observes a panic raised
// while the lock is held.
func (t *LockedTable[K, V]) unlock() {
	if r := recover(); r != nil {
		t.poisoned = true
		t.mu.Unlock()
		panic(r)
	}
	t.mu.Unlock()
}

// check reports why the table cannot be used. t.mu must be held.
func (t *LockedTable[K, V]) check() error {
	switch {
	case t.poisoned:
		return ErrPoisoned
	case t.frozen:
		return ErrFrozen
	}

	return nil
}

func (t *LockedTable[K, V]) copyOut(v V) V {
	if t.clone == nil {
		return v
	}

	return t.clone(v)
}

func (t *LockedTable[K, V]) IsEmpty() bool {
	t.lock()
	defer t.unlock()

	return len(t.entries) == 0
}

func (t *LockedTable[K, V]) Len() int {
	t.lock()
	defer t.unlock()

	return len(t.entries)
}

func (t *LockedTable[K, V]) ContainsKey(k K) bool {
	t.lock()
	defer t.unlock()

	_, ok := t.entries[k]

	return ok
}

func (t *LockedTable[K, V]) Get(k K) (V, bool) {
	atomic.AddUint64(&t.getCalls, 1)

	t.lock()
	defer t.unlock()

	v, ok := t.entries[k]
	if !ok {
		atomic.AddUint64(&t.misses, 1)

		return v, false
	}

	return t.copyOut(v), true
}

func (t *LockedTable[K, V]) Insert(k K, v V) (V, bool) {
	atomic.AddUint64(&t.insertCalls, 1)

	t.lock()
	defer t.unlock()

	old, ok := t.entries[k]
	t.entries[k] = v

	return old, ok
}

func (t *LockedTable[K, V]) Remove(k K) (V, bool) {
	atomic.AddUint64(&t.removes, 1)

	t.lock()
	defer t.unlock()

	v, ok := t.entries[k]
	if ok {
		delete(t.entries, k)
	}

	return v, ok
}

func (t *LockedTable[K, V]) Clear() {
	atomic.AddUint64(&t.clears, 1)

	t.lock()
	defer t.unlock()

	t.entries = make(Table[K, V])
}

// GetOrInsert returns a copy of the existing value for k if present.
// Otherwise it stores v and returns it.
//
// The loaded result is true if the value was loaded, false if stored.
func (t *LockedTable[K, V]) GetOrInsert(k K, v V) (actual V, loaded bool) {
	t.lock()
	defer t.unlock()

	if existing, ok := t.entries[k]; ok {
		atomic.AddUint64(&t.getCalls, 1)

		return t.copyOut(existing), true
	}

	atomic.AddUint64(&t.insertCalls, 1)
	t.entries[k] = v

	return v, false
}

// Update stores fn(current, exists) under k and returns a copy of it.
//
// fn runs with the shard lock held; it must not call back into the map.
// A panic in fn poisons the shard.
func (t *LockedTable[K, V]) Update(k K, fn func(v V, exists bool) V) V {
	atomic.AddUint64(&t.insertCalls, 1)

	t.lock()
	defer t.unlock()

	cur, ok := t.entries[k]
	v := fn(cur, ok)
	t.entries[k] = v

	return t.copyOut(v)
}

// detach moves the entries out and leaves the table frozen. t.mu must be
// held and the table must not be poisoned.
func (t *LockedTable[K, V]) detach() Table[K, V] {
	entries := t.entries
	t.entries = nil
	t.frozen = true

	return entries
}

// clearLocked empties the table. t.mu must be held.
func (t *LockedTable[K, V]) clearLocked() {
	atomic.AddUint64(&t.clears, 1)
	t.entries = make(Table[K, V])
}

func shardError(idx int, err error) error {
	return fmt.Errorf("shard %d: %w", idx, err)
}
