// File: internal/concurrency/runqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shard-confined FIFO run queue, one per scheduling group. Not safe for
// concurrent use: only the owning shard pushes and pops. Cross-goroutine
// submission goes through the Inbox, never here.

package concurrency

import "github.com/eapache/queue"

// RunQueue is an unbounded FIFO of pending work for one scheduling group.
type RunQueue[T any] struct {
	q *queue.Queue
}

// NewRunQueue creates an empty run queue.
func NewRunQueue[T any]() *RunQueue[T] {
	return &RunQueue[T]{q: queue.New()}
}

// Push appends v to the tail.
func (r *RunQueue[T]) Push(v T) {
	r.q.Add(v)
}

// Pop removes and returns the head; ok is false when empty.
func (r *RunQueue[T]) Pop() (T, bool) {
	if r.q.Length() == 0 {
		var zero T
		return zero, false
	}
	return r.q.Remove().(T), true
}

// Peek returns the head without removing it.
func (r *RunQueue[T]) Peek() (T, bool) {
	if r.q.Length() == 0 {
		var zero T
		return zero, false
	}
	return r.q.Peek().(T), true
}

// Len returns the number of queued items.
func (r *RunQueue[T]) Len() int {
	return r.q.Length()
}
