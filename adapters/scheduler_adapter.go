// File: adapters/scheduler_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SchedulerAdapter implements api.Scheduler over the shard pool. Shard
// timer sets are shard-confined, so both arming and canceling travel
// through the target shard's inbox as ordinary tasks; the Cancelable
// handle is the only cross-goroutine surface.

package adapters

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/core/sched"
)

// ErrCanceled is the reason reported by canceled scheduled tasks.
var ErrCanceled = errors.New("scheduled task canceled")

// SchedulerAdapter satisfies api.Scheduler over []*sched.Shard.
type SchedulerAdapter struct {
	shards []*sched.Shard
	next   atomic.Uint64
	epoch  time.Time
}

// NewSchedulerAdapter constructs an api.Scheduler over the given shards.
func NewSchedulerAdapter(shards []*sched.Shard) api.Scheduler {
	return &SchedulerAdapter{shards: shards, epoch: time.Now()}
}

// Schedule runs fn after d on the next shard in round-robin order, under
// the default group.
func (sa *SchedulerAdapter) Schedule(d time.Duration, fn func()) (api.Cancelable, error) {
	if fn == nil {
		return nil, api.ErrInvalidArgument
	}
	if len(sa.shards) == 0 {
		return nil, api.ErrRuntimeStopped
	}
	idx := int((sa.next.Add(1) - 1) % uint64(len(sa.shards)))
	sh := sa.shards[idx]

	st := &scheduledTask{sh: sh, done: make(chan struct{})}
	deadline := time.Now().Add(d)
	err := sh.Submit(sched.DefaultGroup(), func(s *sched.Shard) {
		st.arm(s, time.Until(deadline), fn)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Cancel aborts a Cancelable previously returned by Schedule.
func (sa *SchedulerAdapter) Cancel(c api.Cancelable) error {
	if c == nil {
		return api.ErrInvalidArgument
	}
	return c.Cancel()
}

// Now returns monotonic time in nanoseconds.
func (sa *SchedulerAdapter) Now() int64 {
	return time.Since(sa.epoch).Nanoseconds()
}

// scheduledTask tracks one deadline callback across the shard boundary.
// Arming, firing, and canceling all run on the owning shard; the mutex
// only guards Err against concurrent readers.
type scheduledTask struct {
	sh   *sched.Shard
	done chan struct{}

	mu      sync.Mutex
	timer   *sched.Timer
	settled bool
	err     error
}

var _ api.Cancelable = (*scheduledTask)(nil)

// arm runs in shard context.
func (st *scheduledTask) arm(s *sched.Shard, d time.Duration, fn func()) {
	st.mu.Lock()
	if st.settled {
		st.mu.Unlock()
		return // canceled before arming
	}
	if d < 0 {
		d = 0
	}
	st.timer = s.After(d, sched.DefaultGroup(), func(*sched.Shard) { st.fire(fn) })
	st.mu.Unlock()
}

// fire runs in shard context.
func (st *scheduledTask) fire(fn func()) {
	st.mu.Lock()
	if st.settled {
		st.mu.Unlock()
		return
	}
	st.settled = true
	st.mu.Unlock()
	fn()
	close(st.done)
}

// Cancel submits the cancellation onto the owning shard. It is
// asynchronous: Done is closed once the cancel takes effect; a task that
// fires first wins the race and leaves Err nil.
func (st *scheduledTask) Cancel() error {
	return st.sh.Submit(sched.DefaultGroup(), func(*sched.Shard) {
		st.mu.Lock()
		if st.settled {
			st.mu.Unlock()
			return
		}
		if st.timer == nil || st.timer.Cancel() {
			st.settled = true
			st.err = ErrCanceled
			st.mu.Unlock()
			close(st.done)
			return
		}
		st.mu.Unlock()
	})
}

// Done signals completion or cancellation.
func (st *scheduledTask) Done() <-chan struct{} {
	return st.done
}

// Err returns the cancellation reason, nil for tasks that ran.
func (st *scheduledTask) Err() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.err
}
