package shardmap

// Map is a read-only sharded map.
//
// It is obtained from [MutableMap.Freeze] and never changes afterwards, so
// all methods are safe for concurrent use without locking.
type Map[K comparable, V any] struct {
	ShardMap[K, V, Table[K, V]]
}

// New returns an empty read-only map.
//
// Options other than WithShards and WithHasher are ignored.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	m := &Map[K, V]{}
	m.init(func() Table[K, V] { return make(Table[K, V]) }, buildOptions(opts))

	return m
}

// Get returns the value for the given key.
//
// Returns the zero value and false if the key is not found.
func (m *Map[K, V]) Get(k K) (V, bool) {
	return m.shard(k).Get(k)
}
