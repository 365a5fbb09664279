// File: core/sched/key.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slot registration: typed slot keys and the runtime-wide Registry that
// records how each slot's per-group value is built and disposed.

package sched

import "reflect"

// SlotKey identifies one registered group-local slot. Keys are dense and
// zero-based in registration order, never reused, and comparable.
type SlotKey struct {
	id int
}

// Index returns the key's dense identifier.
func (k SlotKey) Index() int {
	return k.id
}

// slotConfig describes one slot: its element type, how to construct a
// per-group value, and how to dispose of it.
type slotConfig struct {
	typ  reflect.Type
	make func() any
	fini func(any)
}

// Registry holds the ordered slot configurations for one runtime.
//
// The registry is not synchronized. Register slots during the runtime's
// configuration phase, before any shard can reach them; afterwards the
// registry is read-only. The facade enforces this phase split.
type Registry struct {
	slots []slotConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NumSlots returns how many slots have been registered.
func (r *Registry) NumSlots() int {
	return len(r.slots)
}

// RegisterSlot appends a slot of element type T and returns its key. The
// first registration gets index 0, the next 1, and so on. init builds the
// per-group value when a group is initialized on a shard; nil means the
// zero value. fini, when set, runs for each group value on group
// destruction, in slot order.
func RegisterSlot[T any](r *Registry, init func() *T, fini func(*T)) SlotKey {
	cfg := slotConfig{typ: reflect.TypeOf((*T)(nil)).Elem()}
	if init == nil {
		cfg.make = func() any { return new(T) }
	} else {
		cfg.make = func() any { return init() }
	}
	if fini != nil {
		cfg.fini = func(v any) { fini(v.(*T)) }
	}
	r.slots = append(r.slots, cfg)
	return SlotKey{id: len(r.slots) - 1}
}
