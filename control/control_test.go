// control/control_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestConfigStoreSnapshotIsolation(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"shards": 4})

	snap := cs.GetSnapshot()
	snap["shards"] = 99
	if v, _ := cs.Get("shards"); v != 4 {
		t.Fatalf("snapshot mutation leaked into store: %v", v)
	}
}

func TestConfigStoreMerge(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"a": 1, "b": 2})
	cs.SetConfig(map[string]any{"b": 3})

	if v, ok := cs.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v (ok=%v)", v, ok)
	}
	if v, ok := cs.Get("b"); !ok || v != 3 {
		t.Fatalf("b = %v (ok=%v)", v, ok)
	}
	if _, ok := cs.Get("missing"); ok {
		t.Fatal("missing key reported present")
	}
}

func TestConfigStoreListeners(t *testing.T) {
	cs := NewConfigStore()
	var fired atomic.Int32
	cs.OnReload(func() { fired.Add(1) })
	cs.SetConfig(map[string]any{"x": 1})

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("reload listener never fired")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMetricsRegistry(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Set("runtime.shards", 8)
	mr.SetAll("shard0.", map[string]int64{"tasks_run": 17, "task_panics": 0})

	snap := mr.GetSnapshot()
	if snap["runtime.shards"] != 8 {
		t.Fatalf("runtime.shards = %v", snap["runtime.shards"])
	}
	if snap["shard0.tasks_run"] != int64(17) {
		t.Fatalf("shard0.tasks_run = %v", snap["shard0.tasks_run"])
	}
	if mr.LastUpdated().IsZero() {
		t.Fatal("LastUpdated not set")
	}
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("sched.groups", func() any { return 3 })
	RegisterPlatformProbes(dp)

	state := dp.DumpState()
	if state["sched.groups"] != 3 {
		t.Fatalf("sched.groups = %v", state["sched.groups"])
	}
	if _, ok := state["platform.cpus"]; !ok {
		t.Fatal("platform probes not registered")
	}
}

func TestHotReloadSync(t *testing.T) {
	calls := 0
	RegisterReloadHook(func() { calls++ })
	TriggerHotReloadSync()
	if calls != 1 {
		t.Fatalf("sync trigger ran %d times, want 1", calls)
	}
}
