package shardmap

// ShardMap routes keys to a fixed set of shards of storage type S.
//
// It provides the queries every strategy supports. [Map] and [MutableMap]
// add the strategy-specific operations on top.
type ShardMap[K comparable, V any, S InnerMap[K, V]] struct {
	shards []S
	mask   uint64
	hash   Hasher[K]
}

// NewShardMap returns a ShardMap whose shards are created by newShard.
//
// It is the building block for custom shard storage; most callers want
// [NewMutable] or [New].
func NewShardMap[K comparable, V any, S InnerMap[K, V]](newShard func() S, opts ...Option) *ShardMap[K, V, S] {
	m := &ShardMap[K, V, S]{}
	m.init(newShard, buildOptions(opts))

	return m
}

func (m *ShardMap[K, V, S]) init(newShard func() S, o options) {
	m.shards = make([]S, o.shards)
	for i := range m.shards {
		m.shards[i] = newShard()
	}
	m.mask = uint64(o.shards - 1)
	m.hash = hasherFor[K](o)
}

// ShardCount returns the number of shards. It never changes.
func (m *ShardMap[K, V, S]) ShardCount() int {
	return len(m.shards)
}

// ShardIndex returns the index of the shard that owns k.
func (m *ShardMap[K, V, S]) ShardIndex(k K) int {
	return int(m.hash(k) & m.mask)
}

func (m *ShardMap[K, V, S]) shard(k K) S {
	return m.shards[m.ShardIndex(k)]
}

// IsEmpty reports whether every shard is empty.
//
// Shards are inspected one after another, so under concurrent mutation
// the result does not reflect a single point in time.
func (m *ShardMap[K, V, S]) IsEmpty() bool {
	for _, s := range m.shards {
		if !s.IsEmpty() {
			return false
		}
	}

	return true
}

// Len returns the sum of the shard lengths.
//
// Like IsEmpty, it is not atomic across shards.
func (m *ShardMap[K, V, S]) Len() int {
	n := 0
	for _, s := range m.shards {
		n += s.Len()
	}

	return n
}

// ContainsKey reports whether k is present.
func (m *ShardMap[K, V, S]) ContainsKey(k K) bool {
	return m.shard(k).ContainsKey(k)
}
