// Package api
// Author: momentics
//
// Scheduler contract for deadline-driven job execution on the shard pool.

package api

import "time"

// Scheduler abstracts timer scheduling over the runtime's shards.
type Scheduler interface {
	// Schedule runs fn after d on some shard under the default group.
	Schedule(d time.Duration, fn func()) (Cancelable, error)

	// Cancel cancels a previously scheduled callback.
	Cancel(c Cancelable) error

	// Now returns monotonic time in nanoseconds.
	Now() int64
}
