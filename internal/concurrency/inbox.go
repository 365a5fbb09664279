// File: internal/concurrency/inbox.go
// Package concurrency provides the lock-free submission inbox for shards.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded MPMC ring with per-cell sequence numbers, based on the pattern
// by Dmitry Vyukov. Shards use it as a many-producer/single-consumer
// inbox: any goroutine enqueues, only the owning shard dequeues.

package concurrency

import "sync/atomic"

const cacheLinePad = 64

// Inbox is a bounded lock-free queue with capacity rounded to a power of two.
type Inbox[T any] struct {
	head  atomic.Uint64
	_     [cacheLinePad]byte
	tail  atomic.Uint64
	_     [cacheLinePad]byte
	mask  uint64
	cells []inboxCell[T]
}

type inboxCell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// NewInbox creates an inbox with capacity rounded up to a power of two.
func NewInbox[T any](capacity int) *Inbox[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}

	in := &Inbox[T]{
		mask:  uint64(size - 1),
		cells: make([]inboxCell[T], size),
	}
	for i := range in.cells {
		in.cells[i].sequence.Store(uint64(i))
	}
	return in
}

// Enqueue adds val; returns false if the inbox is full.
func (in *Inbox[T]) Enqueue(val T) bool {
	for {
		tail := in.tail.Load()
		c := &in.cells[tail&in.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if in.tail.CompareAndSwap(tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		}
		// tail moved, retry
	}
}

// Dequeue removes and returns an item; ok is false when empty.
func (in *Inbox[T]) Dequeue() (item T, ok bool) {
	for {
		head := in.head.Load()
		c := &in.cells[head&in.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if in.head.CompareAndSwap(head, head+1) {
				item = c.data
				var zero T
				c.data = zero
				c.sequence.Store(head + in.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false // empty
		}
		// head moved, retry
	}
}

// Len returns the approximate number of queued items.
func (in *Inbox[T]) Len() int {
	head := in.head.Load()
	tail := in.tail.Load()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the inbox capacity.
func (in *Inbox[T]) Cap() int {
	return len(in.cells)
}
