// File: core/sched/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

import "github.com/momentics/hioload-sched/internal/concurrency"

// Timer is a pending deadline task on one shard. Like the timer set that
// backs it, it is shard-confined: Cancel only from task context on the
// owning shard.
type Timer struct {
	sh *Shard
	id concurrency.TimerID
}

// Cancel removes the timer; returns false when it already fired or was
// canceled before.
func (t *Timer) Cancel() bool {
	return t.sh.timers.Cancel(t.id)
}

// When returns the timer's deadline on the shard's monotonic clock.
func (t *Timer) When() int64 {
	return t.id.When()
}
