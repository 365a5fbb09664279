// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for the hioload-sched shard engine: a bounded
// lock-free inbox for cross-goroutine task submission, shard-confined FIFO
// run queues, a deadline-ordered timer set, and CPU pinning for shard
// threads. Cross-platform (Linux gets real affinity via x/sys; other
// platforms degrade to OS-thread locking only).
package concurrency
