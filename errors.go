package shardmap

import "errors"

var (
	// ErrPoisoned is reported for a shard whose lock was released by a panic.
	ErrPoisoned = errors.New("shardmap: shard poisoned by a panic while locked")

	// ErrFrozen is reported when a MutableMap is used after Freeze.
	ErrFrozen = errors.New("shardmap: map has been frozen")
)
