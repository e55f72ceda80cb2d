package shardmap

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher hashes a key to a 64-bit value. It must be deterministic for the
// lifetime of the map.
type Hasher[K comparable] func(K) uint64

// hashSeed is the seed used for keys without a dedicated hash path.
var hashSeed = maphash.MakeSeed()

// hashKey returns a hash for the given key.
//
// Strings and fixed-width integers go through xxhash; anything else uses
// [maphash.Comparable] with a process-wide seed.
func hashKey[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxhash.Sum64String(v)
	case int:
		return hashUint64(uint64(v))
	case int8:
		return hashUint64(uint64(v))
	case int16:
		return hashUint64(uint64(v))
	case int32:
		return hashUint64(uint64(v))
	case int64:
		return hashUint64(uint64(v))
	case uint:
		return hashUint64(uint64(v))
	case uint8:
		return hashUint64(uint64(v))
	case uint16:
		return hashUint64(uint64(v))
	case uint32:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uintptr:
		return hashUint64(uint64(v))
	}

	return maphash.Comparable(hashSeed, k)
}

func hashUint64(x uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)

	return xxhash.Sum64(b[:])
}
