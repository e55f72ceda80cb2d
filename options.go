package shardmap

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"sync"
)

// DefaultShardCount returns the shard count used when none is given.
//
// It is the next power of two of 4×GOMAXPROCS, computed on first use and
// cached for the life of the process.
var DefaultShardCount = sync.OnceValue(func() int {
	return nextPowerOfTwo(4 * max(1, runtime.GOMAXPROCS(0)))
})

// Option configures a map at construction time.
type Option func(*options)

type options struct {
	shards int
	hasher any // Hasher[K]
	cloner any // func(V) V
}

// WithShards sets the shard count.
//
// n must be at least 1; it is rounded up to the next power of two.
func WithShards(n int) Option {
	return func(o *options) {
		if n < 1 {
			panic(fmt.Errorf("shard count must be greater than 0; got %d", n))
		}
		o.shards = nextPowerOfTwo(n)
	}
}

// WithHasher replaces the built-in key hash.
//
// A map frozen with [MutableMap.Freeze] keeps the hasher of its source.
func WithHasher[K comparable](fn func(K) uint64) Option {
	return func(o *options) {
		if fn == nil {
			panic(errors.New("hasher must not be nil"))
		}
		o.hasher = Hasher[K](fn)
	}
}

// WithCloner sets the function used by [MutableMap] to copy values out
// from under a shard lock, e.g. to duplicate a []byte. By default values
// are copied by assignment.
func WithCloner[V any](fn func(V) V) Option {
	return func(o *options) {
		o.cloner = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.shards == 0 {
		o.shards = DefaultShardCount()
	}

	return o
}

func hasherFor[K comparable](o options) Hasher[K] {
	if o.hasher == nil {
		return hashKey[K]
	}
	h, ok := o.hasher.(Hasher[K])
	if !ok {
		panic(fmt.Errorf("hasher has type %T; want %T", o.hasher, Hasher[K](nil)))
	}

	return h
}

func clonerFor[V any](o options) func(V) V {
	if o.cloner == nil {
		return nil
	}
	c, ok := o.cloner.(func(V) V)
	if !ok {
		panic(fmt.Errorf("cloner has type %T; want %T", o.cloner, (func(V) V)(nil)))
	}

	return c
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n int) int {
	return 1 << bits.Len(uint(n-1))
}
