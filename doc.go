// Package shardmap provides a generic hash map whose key space is split
// into independently lockable shards.
//
// # Architecture
//
// A [ShardMap] owns a fixed, power-of-two number of shards. Every operation
// hashes the key, masks the hash down to a shard index and delegates to
// that shard only. The shard count never changes after construction, so a
// key is always routed to the same shard.
//
// Two storage strategies share the routing logic:
//
//   - [Table] is a plain map[K]V. [Map] is built on it and offers read-only,
//     lock-free access.
//   - [LockedTable] guards a [Table] with a mutex. [MutableMap] is built on it
//     and offers Get, Insert, Remove and Clear, each holding exactly one
//     shard lock for the duration of the call.
//
// When no shard count is given, [DefaultShardCount] is used: the next power
// of two of 4×GOMAXPROCS, computed once per process.
//
// # Freezing
//
// [MutableMap.Freeze] consumes a mutable map and returns a [Map] with the
// same shards. Each shard's table is moved, not copied, so freezing costs
// O(shards) regardless of the number of entries.
//
// # Consistency
//
// Operations on one key are linearizable. Len, IsEmpty and Clear visit the
// shards one at a time and therefore do not observe a single point in time
// while other goroutines mutate the map. [MutableMap.ClearAtomic] holds
// every shard lock at once when that matters.
//
// # Poisoning
//
// A panic raised while a shard lock is held (for example from an
// [MutableMap.Update] callback) poisons that shard. Every later operation
// on it panics with an error wrapping [ErrPoisoned], and Freeze fails.
package shardmap
