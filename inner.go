package shardmap

// InnerMap is the storage behind a single shard.
//
// The queries never take ownership of the key and never modify the shard;
// a synchronized implementation locks and unlocks internally.
type InnerMap[K comparable, V any] interface {
	IsEmpty() bool
	Len() int
	ContainsKey(k K) bool
}

// ImmutableInnerMap is shard storage that is never mutated again, so
// reads need no locking.
type ImmutableInnerMap[K comparable, V any] interface {
	InnerMap[K, V]

	// Get returns the stored value and true, or the zero value and false.
	Get(k K) (V, bool)
}

// MutableInnerMap is shard storage that is safe for concurrent mutation.
//
// Values cross the call boundary as copies since the lock guarding them is
// released before the call returns.
type MutableInnerMap[K comparable, V any] interface {
	InnerMap[K, V]

	// Get returns a copy of the stored value and true, or the zero value
	// and false.
	Get(k K) (V, bool)

	// Insert stores v under k and returns the value it replaced, if any.
	Insert(k K, v V) (V, bool)

	// Remove deletes k and returns its value, if any.
	Remove(k K) (V, bool)

	// Clear removes all entries.
	Clear()
}

// Table is the plain, unsynchronized shard storage.
type Table[K comparable, V any] map[K]V

var _ ImmutableInnerMap[string, int] = Table[string, int](nil)

func (t Table[K, V]) IsEmpty() bool {
	return len(t) == 0
}

func (t Table[K, V]) Len() int {
	return len(t)
}

func (t Table[K, V]) ContainsKey(k K) bool {
	_, ok := t[k]

	return ok
}

func (t Table[K, V]) Get(k K) (V, bool) {
	v, ok := t[k]

	return v, ok
}
