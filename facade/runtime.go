// File: facade/runtime.go
// Unified facade layer for the hioload-sched library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Runtime struct, which aggregates the core
// components of hioload-sched behind a single facade: the slot registry,
// the shard pool, scheduling-group bookkeeping, executor, scheduler, and
// control interfaces. The facade owns the phase discipline: slots are
// registered before Start, scheduling groups are created and destroyed
// while the runtime is running, and Stop tears the shard pool down
// exactly once.

package facade

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/hioload-sched/adapters"
	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/core/sched"
	"github.com/momentics/hioload-sched/internal/concurrency"
)

// Version is reported through api.RuntimeInfo.
const Version = "0.1.0"

// Runtime phases. Slot registration is only legal before Start; group
// creation and task submission only while running. A stopped Runtime
// cannot be restarted.
const (
	phaseConfigure = iota
	phaseRunning
	phaseStopped
)

// groupEntry tracks one allocated group index.
type groupEntry struct {
	name   string
	shares uint
	state  api.GroupState
}

// Runtime is the main facade type.
// It implements api.GracefulShutdown to allow unified shutdown logic.
type Runtime struct {
	id  string
	cfg *Config
	reg *sched.Registry

	control   *adapters.ControlAdapter
	executor  api.Executor
	scheduler api.Scheduler

	mu        sync.RWMutex
	phase     int
	shards    []*sched.Shard
	groups    [sched.MaxGroups]*groupEntry
	startedAt time.Time
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Runtime)(nil)

// New constructs a Runtime with the given configuration. Shards are not
// created until Start; the window between New and Start is the slot
// registration phase.
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rt := &Runtime{
		id:      uuid.NewString(),
		cfg:     cfg,
		reg:     sched.NewRegistry(),
		control: adapters.NewControlAdapter(),
	}

	// Expose configuration values via Control for observability.
	rt.control.SetConfig(map[string]any{
		"name":           cfg.Name,
		"shards":         cfg.Shards,
		"inbox_capacity": cfg.InboxCapacity,
		"batch_size":     cfg.BatchSize,
		"pin_threads":    cfg.PinThreads,
		"default_shares": cfg.DefaultShares,
	})
	rt.control.RegisterDebugProbe("runtime.id", func() any { return rt.id })
	rt.control.RegisterDebugProbe("runtime.groups", func() any {
		infos := rt.Groups()
		names := make([]string, 0, len(infos))
		for _, gi := range infos {
			names = append(names, fmt.Sprintf("%d:%s", gi.Index, gi.Name))
		}
		return names
	})
	return rt, nil
}

// RegisterSlot allocates a typed slot in every future shard table. Slots
// must be registered before Start; init may be nil, in which case records
// start at the zero value of T. Keys are dense and ascend in registration
// order.
func RegisterSlot[T any](rt *Runtime, init func() *T, fini func(*T)) (sched.SlotKey, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.phase != phaseConfigure {
		return sched.SlotKey{}, api.ErrSlotAfterStart
	}
	return sched.RegisterSlot(rt.reg, init, fini), nil
}

// Start brings up the shard pool: one goroutine per shard, pinned when
// configured, each with the default group initialized. Start on a running
// Runtime has no effect.
func (rt *Runtime) Start() error {
	rt.mu.Lock()
	switch rt.phase {
	case phaseRunning:
		rt.mu.Unlock()
		return nil
	case phaseStopped:
		rt.mu.Unlock()
		return api.ErrRuntimeStopped
	}

	cpus := concurrency.NumCPUs()
	rt.shards = make([]*sched.Shard, rt.cfg.Shards)
	for i := range rt.shards {
		opts := sched.ShardOptions{
			InboxCapacity: rt.cfg.InboxCapacity,
			BatchSize:     rt.cfg.BatchSize,
			PinCPU:        -1,
			NUMANode:      -1,
		}
		if rt.cfg.PinThreads {
			opts.PinCPU = (rt.cfg.FirstCPU + i) % cpus
		}
		sh := sched.NewShard(i, rt.reg, opts)
		sh.InitGroup(sched.DefaultGroup(), rt.cfg.DefaultShares)
		go sh.Run()
		<-sh.Ready()
		rt.shards[i] = sh
	}
	rt.groups[0] = &groupEntry{name: "main", shares: rt.cfg.DefaultShares, state: api.GroupActive}
	rt.executor = adapters.NewExecutorAdapter(rt.shards)
	rt.scheduler = adapters.NewSchedulerAdapter(rt.shards)
	rt.startedAt = time.Now()
	rt.phase = phaseRunning
	shards := rt.shards
	rt.mu.Unlock()

	// Probe registration happens outside rt.mu: DumpState invokes probes
	// under the probe registry lock, and probes may take rt.mu.
	for i, sh := range shards {
		sh := sh
		rt.control.RegisterDebugProbe(fmt.Sprintf("shard%d.stats", i), func() any { return sh.Stats() })
	}
	return nil
}

// Stop deinitializes every group on every shard, stops the shard loops,
// and publishes final per-shard counters through Control. Stop on a
// Runtime that is not running has no effect.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	if rt.phase != phaseRunning {
		rt.mu.Unlock()
		return nil
	}
	rt.phase = phaseStopped
	shards := rt.shards
	rt.mu.Unlock()

	// Group records must be torn down on their owning shards while the
	// loops still run. The default group goes last: the cleanup task
	// itself runs under it.
	var wg sync.WaitGroup
	wg.Add(len(shards))
	for _, sh := range shards {
		err := submitRetry(sh, func(s *sched.Shard) {
			for idx := sched.MaxGroups - 1; idx >= 0; idx-- {
				s.DeinitGroup(sched.MakeGroup(idx))
			}
			wg.Done()
		})
		if err != nil {
			log.Printf("[facade] shard %d cleanup submit failed: %v", sh.ID(), err)
			wg.Done()
		}
	}
	wg.Wait()

	for i, sh := range shards {
		sh.Stop()
		rt.control.SetMetrics(fmt.Sprintf("shard%d.", i), sh.Stats())
	}
	return nil
}

// Shutdown implements api.GracefulShutdown by delegating to Stop().
func (rt *Runtime) Shutdown() error {
	return rt.Stop()
}

// CreateGroup allocates the smallest free group index, initializes the
// group's record on every shard, and returns its handle once every shard
// has it. A shares value of 0 selects the configured default. CreateGroup
// blocks until all shards acknowledge and must not be called from shard
// context.
func (rt *Runtime) CreateGroup(name string, shares uint) (sched.Group, error) {
	if shares == 0 {
		shares = rt.cfg.DefaultShares
	}
	rt.mu.Lock()
	if rt.phase != phaseRunning {
		rt.mu.Unlock()
		return sched.Group{}, api.ErrRuntimeStopped
	}
	idx := -1
	for i := range rt.groups {
		if rt.groups[i] == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		rt.mu.Unlock()
		return sched.Group{}, api.ErrTooManyGroups
	}
	rt.groups[idx] = &groupEntry{name: name, shares: shares, state: api.GroupActive}
	shards := rt.shards
	rt.mu.Unlock()

	g := sched.MakeGroup(idx)
	var wg sync.WaitGroup
	wg.Add(len(shards))
	for _, sh := range shards {
		err := submitRetry(sh, func(s *sched.Shard) {
			s.InitGroup(g, shares)
			wg.Done()
		})
		if err != nil {
			// Shards are only unreachable when the runtime is stopping;
			// the index is released and the group never existed.
			rt.mu.Lock()
			rt.groups[idx] = nil
			rt.mu.Unlock()
			return sched.Group{}, err
		}
	}
	wg.Wait()
	return g, nil
}

// DestroyGroup tears a group down: tasks still queued under it are
// dropped, its records are deinitialized on every shard with finalizers
// running in slot order, and the index becomes free for reuse. The
// default group cannot be destroyed. Blocks until all shards acknowledge
// and must not be called from shard context.
func (rt *Runtime) DestroyGroup(g sched.Group) error {
	idx := g.Index()
	if idx == 0 {
		return api.ErrInvalidArgument
	}
	rt.mu.Lock()
	if rt.phase != phaseRunning {
		rt.mu.Unlock()
		return api.ErrRuntimeStopped
	}
	if idx < 0 || idx >= sched.MaxGroups || rt.groups[idx] == nil || rt.groups[idx].state != api.GroupActive {
		rt.mu.Unlock()
		return api.ErrNoSuchGroup
	}
	rt.groups[idx].state = api.GroupDraining
	shards := rt.shards
	rt.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(shards))
	for _, sh := range shards {
		err := submitRetry(sh, func(s *sched.Shard) {
			s.DeinitGroup(g)
			wg.Done()
		})
		if err != nil {
			log.Printf("[facade] shard %d deinit submit failed: %v", sh.ID(), err)
			wg.Done()
		}
	}
	wg.Wait()

	rt.mu.Lock()
	rt.groups[idx] = nil
	rt.mu.Unlock()
	return nil
}

// Submit dispatches a task to the shard pool round-robin, under the
// default group.
func (rt *Runtime) Submit(task func()) error {
	rt.mu.RLock()
	exec := rt.executor
	running := rt.phase == phaseRunning
	rt.mu.RUnlock()
	if !running {
		return api.ErrRuntimeStopped
	}
	return exec.Submit(task)
}

// SubmitTo dispatches a task to one shard under one group. The group must
// be registered with the runtime; submissions under unknown handles are
// rejected here rather than silently dropped by the shard.
func (rt *Runtime) SubmitTo(shardID int, g sched.Group, t sched.Task) error {
	rt.mu.RLock()
	if rt.phase != phaseRunning {
		rt.mu.RUnlock()
		return api.ErrRuntimeStopped
	}
	if shardID < 0 || shardID >= len(rt.shards) {
		rt.mu.RUnlock()
		return api.ErrShardOutOfRange
	}
	idx := g.Index()
	if idx < 0 || idx >= sched.MaxGroups || rt.groups[idx] == nil || rt.groups[idx].state != api.GroupActive {
		rt.mu.RUnlock()
		return api.ErrNoSuchGroup
	}
	sh := rt.shards[shardID]
	rt.mu.RUnlock()
	return sh.Submit(g, t)
}

// RunOn submits t to one shard and waits for it to finish. Intended for
// setup and inspection flows on non-shard goroutines.
func (rt *Runtime) RunOn(shardID int, g sched.Group, t sched.Task) error {
	done := make(chan struct{})
	err := rt.SubmitTo(shardID, g, func(s *sched.Shard) {
		t(s)
		close(done)
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Control returns the Control interface for dynamic config and metrics.
func (rt *Runtime) Control() api.Control {
	return rt.control
}

// Executor returns the round-robin task executor over the shard pool.
// Valid once Start has returned.
func (rt *Runtime) Executor() api.Executor {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.executor
}

// Scheduler exposes the timer scheduler for delayed tasks.
func (rt *Runtime) Scheduler() api.Scheduler {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.scheduler
}

// OnReload registers fn to run whenever configuration changes through
// Control.
func (rt *Runtime) OnReload(fn func()) {
	rt.control.OnReload(fn)
}

// NumShards returns the configured pool size.
func (rt *Runtime) NumShards() int {
	return rt.cfg.Shards
}

// Shard returns one shard by index, nil when out of range or before
// Start.
func (rt *Runtime) Shard(i int) *sched.Shard {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if i < 0 || i >= len(rt.shards) {
		return nil
	}
	return rt.shards[i]
}

// Info describes this runtime instance.
func (rt *Runtime) Info() api.RuntimeInfo {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return api.RuntimeInfo{
		ID:        rt.id,
		Name:      rt.cfg.Name,
		Version:   Version,
		Shards:    rt.cfg.Shards,
		StartedAt: rt.startedAt,
	}
}

// Groups snapshots the allocated scheduling groups in index order.
func (rt *Runtime) Groups() []api.GroupInfo {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make([]api.GroupInfo, 0, sched.MaxGroups)
	for i, e := range rt.groups {
		if e == nil {
			continue
		}
		out = append(out, api.GroupInfo{Index: i, Name: e.name, Shares: e.shares, State: e.state})
	}
	return out
}

// submitRetry pushes a control task through sh under the default group,
// retrying while the inbox is momentarily full.
func submitRetry(sh *sched.Shard, t sched.Task) error {
	for {
		err := sh.Submit(sched.DefaultGroup(), t)
		if !errors.Is(err, api.ErrShardBusy) {
			return err
		}
		time.Sleep(10 * time.Microsecond)
	}
}
