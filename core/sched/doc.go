// File: core/sched/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sched implements scheduling groups with group-local typed data
// and the cooperative shard engine that hosts them.
//
// Every shard (one goroutine locked to an OS thread) owns a slot table:
// per-group records of type-erased values, one cell per slot registered
// in the runtime's Registry. Tables are strictly shard-confined; all
// reads and writes happen on the owning shard, so the hot path carries
// no locks and no atomics. Cross-goroutine work enters through a
// lock-free inbox and runs as tasks under a scheduling group; tasks
// receive their shard explicitly, there is no hidden thread-local
// context.
//
// MapReduceLocal and ReduceLocal fold one slot's values across the
// shard's initialized groups in ascending group order, asynchronously
// and fail-fast, using the future package for suspension.
package sched
