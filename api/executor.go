// Package api
// Author: momentics
//
// Executor contract for task dispatch onto the shard pool.

package api

// Executor abstracts task submission onto a fixed pool of shards.
// The pool size is decided at startup; per-core runtimes do not resize.
type Executor interface {
	// Submit schedules task for execution on some shard.
	Submit(task func()) error

	// NumShards returns the number of shards in the pool.
	NumShards() int
}
