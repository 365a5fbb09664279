// File: core/sched/shard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The cooperative shard engine. One shard is one goroutine locked to an
// OS thread (optionally pinned to a CPU) that owns a slot table, one FIFO
// run queue per scheduling group, a deadline timer set, and a lock-free
// inbox for submissions from other goroutines.
//
// Group selection is shares-weighted: each batch advances the group's
// virtual runtime by elapsed/shares, and the runnable group with the
// smallest virtual runtime goes next, so a group with twice the shares
// receives roughly twice the shard time under contention.

package sched

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/concurrency"
)

// Task is a unit of shard work. Tasks receive the shard they run on; the
// execution context always travels explicitly.
type Task func(sh *Shard)

// submission carries a task and its target group through the inbox.
type submission struct {
	group Group
	task  Task
}

// timerEntry is a pending deadline task.
type timerEntry struct {
	group Group
	task  Task
}

// groupQueue is one group's scheduling state on this shard.
type groupQueue struct {
	runq     *concurrency.RunQueue[Task]
	shares   uint
	vruntime uint64
	active   bool
}

// ShardOptions configure one shard.
type ShardOptions struct {
	InboxCapacity int
	BatchSize     int
	PinCPU        int // logical CPU to pin the shard thread to; -1 disables
	NUMANode      int // advisory NUMA node for the pin; -1 for none
}

// DefaultShardOptions returns the defaults used by the runtime facade.
func DefaultShardOptions() ShardOptions {
	return ShardOptions{
		InboxCapacity: 1024,
		BatchSize:     64,
		PinCPU:        -1,
		NUMANode:      -1,
	}
}

// Shard owns a slot table and runs tasks against it cooperatively.
type Shard struct {
	id       int
	pinCPU   int
	numaNode int
	batch    int

	table  *Table
	inbox  *concurrency.Inbox[submission]
	timers *concurrency.TimerSet[timerEntry]
	queues [MaxGroups]groupQueue

	current Group
	epoch   time.Time

	wakeCh  chan struct{}
	quitCh  chan struct{}
	doneCh  chan struct{}
	readyCh chan struct{}
	running atomic.Bool
	closed  atomic.Bool

	tasksRun     atomic.Int64
	taskPanics   atomic.Int64
	timerFires   atomic.Int64
	inboxRejects atomic.Int64
	orphanDrops  atomic.Int64
}

// NewShard creates a stopped shard over the given registry.
func NewShard(id int, reg *Registry, opts ShardOptions) *Shard {
	if opts.InboxCapacity <= 0 {
		opts.InboxCapacity = DefaultShardOptions().InboxCapacity
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultShardOptions().BatchSize
	}
	return &Shard{
		id:       id,
		pinCPU:   opts.PinCPU,
		numaNode: opts.NUMANode,
		batch:    opts.BatchSize,
		table:    NewTable(reg),
		inbox:    concurrency.NewInbox[submission](opts.InboxCapacity),
		timers:   concurrency.NewTimerSet[timerEntry](),
		epoch:    time.Now(),
		wakeCh:   make(chan struct{}, 1),
		quitCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		readyCh:  make(chan struct{}),
	}
}

// ID returns the shard's index in the runtime's pool.
func (s *Shard) ID() int {
	return s.id
}

// CurrentGroup returns the group of the task currently executing on this
// shard; outside task batches it is the default group.
func (s *Shard) CurrentGroup() Group {
	return s.current
}

// Now returns the shard's monotonic clock in nanoseconds.
func (s *Shard) Now() int64 {
	return time.Since(s.epoch).Nanoseconds()
}

// Ready is closed once Run has locked its thread and begun processing.
func (s *Shard) Ready() <-chan struct{} {
	return s.readyCh
}

// InitGroup prepares g on this shard: slot storage in the table plus the
// group's run queue and scheduling weight. New groups start at the
// smallest active virtual runtime so they do not starve existing ones.
// Call it from task context, or before Run during single-threaded setup.
func (s *Shard) InitGroup(g Group, shares uint) {
	if g.id < 0 || g.id >= MaxGroups {
		panic(api.NewError(api.ErrCodeNoSuchGroup, "group index out of range").
			WithContext("group", g.id))
	}
	if shares == 0 {
		shares = 1
	}
	s.table.initGroup(g.id)
	q := &s.queues[g.id]
	if q.runq == nil {
		q.runq = concurrency.NewRunQueue[Task]()
	}
	q.shares = shares
	q.vruntime = s.minActiveVruntime()
	q.active = true
}

// DeinitGroup tears g down on this shard: pending tasks of the group are
// dropped, finalizers run, the record goes away. Call it from task
// context, or after the shard has stopped.
func (s *Shard) DeinitGroup(g Group) {
	if g.id < 0 || g.id >= MaxGroups {
		return
	}
	q := &s.queues[g.id]
	q.active = false
	if q.runq != nil {
		for {
			if _, ok := q.runq.Pop(); !ok {
				break
			}
		}
	}
	s.table.deinitGroup(g.id)
}

// GroupInitialized reports whether g has storage on this shard.
// Owning-shard only.
func (s *Shard) GroupInitialized(g Group) bool {
	return g.id >= 0 && g.id < MaxGroups && s.table.records[g.id].initialized
}

// Submit enqueues t to run under g. Safe from any goroutine. Returns
// ErrShardBusy when the inbox is full and ErrShardClosed after Stop.
// Whether g is still alive is checked by the routing step on the shard;
// tasks for groups destroyed in flight are dropped and counted.
func (s *Shard) Submit(g Group, t Task) error {
	if t == nil {
		return api.ErrInvalidArgument
	}
	if g.id < 0 || g.id >= MaxGroups {
		return api.ErrNoSuchGroup
	}
	if s.closed.Load() {
		return api.ErrShardClosed
	}
	if !s.inbox.Enqueue(submission{group: g, task: t}) {
		s.inboxRejects.Add(1)
		return api.ErrShardBusy
	}
	s.wake()
	return nil
}

// Spawn enqueues t under g directly on the run queue, bypassing the
// inbox. Owning-shard only: call it from task context.
func (s *Shard) Spawn(g Group, t Task) {
	if t == nil || g.id < 0 || g.id >= MaxGroups {
		return
	}
	s.enqueueLocal(g, t)
}

// After schedules t to run under g once d has elapsed. Owning-shard
// only; cross-goroutine deadline scheduling goes through the runtime's
// scheduler adapter, which submits onto the shard first.
func (s *Shard) After(d time.Duration, g Group, t Task) *Timer {
	when := s.Now() + d.Nanoseconds()
	id := s.timers.Schedule(when, timerEntry{group: g, task: t})
	return &Timer{sh: s, id: id}
}

// Stats returns a snapshot of the shard's counters.
func (s *Shard) Stats() map[string]int64 {
	return map[string]int64{
		"tasks_run":     s.tasksRun.Load(),
		"task_panics":   s.taskPanics.Load(),
		"timer_fires":   s.timerFires.Load(),
		"inbox_rejects": s.inboxRejects.Load(),
		"orphan_drops":  s.orphanDrops.Load(),
		"inbox_pending": int64(s.inbox.Len()),
	}
}

// Run executes the shard loop until Stop. It locks the goroutine to its
// OS thread and, when configured, pins that thread to the shard's CPU.
func (s *Shard) Run() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer close(s.doneCh)

	runtime.LockOSThread()
	if s.pinCPU >= 0 {
		if err := concurrency.PinCurrentThread(s.numaNode, s.pinCPU); err != nil {
			log.Printf("[shard %d] pin to CPU %d failed: %v", s.id, s.pinCPU, err)
		}
	}
	close(s.readyCh)

	backoffNs := int64(1)
	const maxBackoffNs = int64(1_000_000)

	// Reusable parking timer, armed only when idle.
	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}

	for {
		select {
		case <-s.quitCh:
			return
		default:
		}

		s.drainInbox()
		s.fireDueTimers()

		if s.runBatch() {
			backoffNs = 1
			continue
		}

		wait := time.Duration(backoffNs)
		if when, ok := s.timers.NextDeadline(); ok {
			if d := time.Duration(when - s.Now()); d < wait {
				wait = d
			}
		}
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-s.quitCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			return
		case <-s.wakeCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			backoffNs = 1
		case <-timer.C:
			backoffNs *= 2
			if backoffNs > maxBackoffNs {
				backoffNs = maxBackoffNs
			}
		}
	}
}

// Stop closes the shard: no new submissions, the loop exits after its
// current batch, queued tasks are discarded. Blocks until the loop is
// done. Only valid once Run has been started.
func (s *Shard) Stop() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.quitCh)
		s.wake()
	}
	<-s.doneCh
}

func (s *Shard) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

func (s *Shard) drainInbox() {
	for {
		sub, ok := s.inbox.Dequeue()
		if !ok {
			return
		}
		s.enqueueLocal(sub.group, sub.task)
	}
}

func (s *Shard) fireDueTimers() {
	now := s.Now()
	for {
		e, ok := s.timers.PopDue(now)
		if !ok {
			return
		}
		s.timerFires.Add(1)
		s.enqueueLocal(e.group, e.task)
	}
}

func (s *Shard) enqueueLocal(g Group, t Task) {
	q := &s.queues[g.id]
	if !q.active {
		s.orphanDrops.Add(1)
		return
	}
	q.runq.Push(t)
}

// runBatch picks the runnable group with the smallest virtual runtime
// and executes up to one batch from its queue. Reports whether any task ran.
func (s *Shard) runBatch() bool {
	idx := s.pickGroup()
	if idx < 0 {
		return false
	}
	q := &s.queues[idx]
	s.current = Group{id: idx}
	start := time.Now()
	for i := 0; i < s.batch; i++ {
		t, ok := q.runq.Pop()
		if !ok {
			break
		}
		s.runTask(t)
	}
	elapsed := time.Since(start).Nanoseconds()
	if elapsed < 1 {
		elapsed = 1
	}
	q.vruntime += uint64(elapsed) * uint64(DefaultShares) / uint64(q.shares)
	s.current = DefaultGroup()
	return true
}

func (s *Shard) pickGroup() int {
	best := -1
	var bestVr uint64
	for i := range s.queues {
		q := &s.queues[i]
		if !q.active || q.runq == nil || q.runq.Len() == 0 {
			continue
		}
		if best < 0 || q.vruntime < bestVr {
			best = i
			bestVr = q.vruntime
		}
	}
	return best
}

func (s *Shard) minActiveVruntime() uint64 {
	var min uint64
	found := false
	for i := range s.queues {
		q := &s.queues[i]
		if q.active && (!found || q.vruntime < min) {
			min = q.vruntime
			found = true
		}
	}
	return min
}

// runTask executes one task. Ordinary panics are contained and counted
// so one bad task cannot take the shard down; invariant faults are
// re-raised and halt the runtime.
func (s *Shard) runTask(t Task) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && api.IsInvariantViolation(err) {
				panic(r)
			}
			s.taskPanics.Add(1)
			log.Printf("[shard %d] task panic: %v", s.id, r)
		}
	}()
	s.tasksRun.Add(1)
	t(s)
}
