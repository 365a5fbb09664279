// File: internal/concurrency/timerset.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deadline-ordered timer storage for shard loops, backed by a red-black
// tree keyed by (deadline, sequence). The sequence keeps keys unique and
// makes firing order stable for equal deadlines. Shard-confined: no
// internal synchronization.

package concurrency

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// TimerID identifies a scheduled entry for cancellation.
type TimerID struct {
	when int64
	seq  uint64
}

// When returns the entry's deadline in monotonic nanoseconds.
func (id TimerID) When() int64 { return id.when }

// TimerSet holds pending timers ordered by deadline.
type TimerSet[T any] struct {
	tree *rbt.Tree[TimerID, T]
	seq  uint64
}

func compareTimerID(a, b TimerID) int {
	switch {
	case a.when < b.when:
		return -1
	case a.when > b.when:
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// NewTimerSet creates an empty timer set.
func NewTimerSet[T any]() *TimerSet[T] {
	return &TimerSet[T]{
		tree: rbt.NewWith[TimerID, T](compareTimerID),
	}
}

// Schedule inserts v with the given deadline (monotonic nanoseconds).
func (s *TimerSet[T]) Schedule(when int64, v T) TimerID {
	s.seq++
	id := TimerID{when: when, seq: s.seq}
	s.tree.Put(id, v)
	return id
}

// Cancel removes the entry; returns false if it already fired or was canceled.
func (s *TimerSet[T]) Cancel(id TimerID) bool {
	if _, found := s.tree.Get(id); !found {
		return false
	}
	s.tree.Remove(id)
	return true
}

// NextDeadline returns the earliest pending deadline.
func (s *TimerSet[T]) NextDeadline() (int64, bool) {
	node := s.tree.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.when, true
}

// PopDue removes and returns the earliest entry with deadline <= now.
func (s *TimerSet[T]) PopDue(now int64) (T, bool) {
	node := s.tree.Left()
	if node == nil || node.Key.when > now {
		var zero T
		return zero, false
	}
	v := node.Value
	s.tree.Remove(node.Key)
	return v, true
}

// Len returns the number of pending timers.
func (s *TimerSet[T]) Len() int {
	return s.tree.Size()
}
