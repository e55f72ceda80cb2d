package shardmap

import "sync/atomic"

// Stats represents map stats.
//
// Use [MutableMap.UpdateStats] for obtaining fresh stats from the map.
type Stats struct {
	// GetCalls is the number of lookups, including loaded GetOrInsert calls.
	GetCalls uint64

	// InsertCalls is the number of Insert and Update calls, plus GetOrInsert
	// calls that stored a value.
	InsertCalls uint64

	// Misses is the number of lookups that found no entry.
	Misses uint64

	// Hits is the number of lookups that found an entry.
	Hits uint64

	// Removes is the number of Remove calls.
	Removes uint64

	// Clears is the number of times a shard was cleared.
	Clears uint64

	// EntriesCount is the current number of entries in the map.
	EntriesCount uint64

	// ShardCount is the number of shards.
	ShardCount uint64
}

// UpdateStats adds map stats to s.
//
// Call [Stats.Reset] before calling UpdateStats if s is re-used.
func (m *MutableMap[K, V]) UpdateStats(s *Stats) {
	for _, shard := range m.shards {
		s.GetCalls += atomic.LoadUint64(&shard.getCalls)
		s.InsertCalls += atomic.LoadUint64(&shard.insertCalls)
		s.Misses += atomic.LoadUint64(&shard.misses)
		s.Removes += atomic.LoadUint64(&shard.removes)
		s.Clears += atomic.LoadUint64(&shard.clears)
	}

	s.EntriesCount = uint64(m.Len())
	s.Hits = s.GetCalls - s.Misses
	s.ShardCount = uint64(len(m.shards))
}

// Reset resets s, so it may be re-used again in [MutableMap.UpdateStats].
func (s *Stats) Reset() {
	*s = Stats{}
}
