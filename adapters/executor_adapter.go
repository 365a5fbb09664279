// File: adapters/executor_adapter.go
// Package adapters provides glue between the core runtime and api contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ExecutorAdapter implements the api.Executor interface over a fixed pool
// of shards: tasks are distributed round-robin and run under the default
// scheduling group.

package adapters

import (
	"sync/atomic"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/core/sched"
)

// ExecutorAdapter satisfies api.Executor over []*sched.Shard.
type ExecutorAdapter struct {
	shards []*sched.Shard
	next   atomic.Uint64
}

// NewExecutorAdapter constructs an api.Executor over the given shards.
func NewExecutorAdapter(shards []*sched.Shard) api.Executor {
	return &ExecutorAdapter{shards: shards}
}

// Submit dispatches task to the next shard in round-robin order, under
// the default group. Returns the shard's submission error unchanged.
func (ea *ExecutorAdapter) Submit(task func()) error {
	if task == nil {
		return api.ErrInvalidArgument
	}
	if len(ea.shards) == 0 {
		return api.ErrRuntimeStopped
	}
	idx := int((ea.next.Add(1) - 1) % uint64(len(ea.shards)))
	return ea.shards[idx].Submit(sched.DefaultGroup(), func(*sched.Shard) { task() })
}

// NumShards returns the pool size.
func (ea *ExecutorAdapter) NumShards() int {
	return len(ea.shards)
}
