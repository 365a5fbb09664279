// File: core/sched/table.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The per-shard slot table: MaxGroups records of type-erased group-local
// values plus a read-only view of the Registry. A table belongs to
// exactly one shard; every operation here runs on the owning shard (or
// before the shard starts), so nothing is locked and nothing is atomic.

package sched

import (
	"reflect"

	"github.com/momentics/hioload-sched/api"
)

// groupRecord is one group's storage on one shard.
type groupRecord struct {
	initialized bool
	vals        []any
}

// Table is the shard-confined slot storage.
type Table struct {
	reg     *Registry
	records [MaxGroups]groupRecord
}

// NewTable creates an empty table over the given registry.
func NewTable(reg *Registry) *Table {
	return &Table{reg: reg}
}

// initGroup allocates the record for a group index: one constructed value
// per registered slot, in slot order, then the initialized flag. Idempotent.
func (t *Table) initGroup(idx int) {
	rec := &t.records[idx]
	if rec.initialized {
		return
	}
	vals := make([]any, len(t.reg.slots))
	for i, cfg := range t.reg.slots {
		vals[i] = cfg.make()
	}
	rec.vals = vals
	rec.initialized = true
}

// deinitGroup runs finalizers in slot order and drops the record. Idempotent.
func (t *Table) deinitGroup(idx int) {
	rec := &t.records[idx]
	if !rec.initialized {
		return
	}
	for i, cfg := range t.reg.slots {
		if cfg.fini != nil && i < len(rec.vals) {
			cfg.fini(rec.vals[i])
		}
	}
	rec.vals = nil
	rec.initialized = false
}

// checkSlotType faults unless the key's registered element type is want.
// Every typed access runs this before touching any cell, so a mismatched
// key can never surface a wrongly typed pointer.
func (t *Table) checkSlotType(id int, want reflect.Type) {
	if id < 0 || id >= len(t.reg.slots) {
		panic(api.NewError(api.ErrCodeSlotOutOfRange, "slot key not in registry").
			WithContext("slot", id).
			WithContext("registered", len(t.reg.slots)))
	}
	if got := t.reg.slots[id].typ; got != want {
		panic(api.NewError(api.ErrCodeSlotTypeMismatch, "slot type mismatch").
			WithContext("slot", id).
			WithContext("registered", got.String()).
			WithContext("requested", want.String()))
	}
}

// slotCell returns the cell for (group index, slot id), or nil when the
// group index is out of range or the record is not initialized. An
// initialized record shorter than the slot id means slots were registered
// after the group came up; that breaks the registration discipline and
// faults rather than returning a cell for a value that was never built.
func (t *Table) slotCell(idx, id int) any {
	if idx < 0 || idx >= MaxGroups {
		return nil
	}
	rec := &t.records[idx]
	if !rec.initialized {
		return nil
	}
	if id >= len(rec.vals) {
		panic(api.NewError(api.ErrCodeSlotOutOfRange, "slot beyond group record").
			WithContext("slot", id).
			WithContext("group", idx).
			WithContext("record_slots", len(rec.vals)))
	}
	return rec.vals[id]
}

// cursor walks initialized records in ascending group-index order. It
// evaluates lazily: each advance inspects the table as it is right now,
// so records created or destroyed between steps are picked up or skipped
// at the moment the step runs.
type cursor struct {
	t    *Table
	next int
}

func (c *cursor) advance() (int, bool) {
	for c.next < MaxGroups {
		idx := c.next
		c.next++
		if c.t.records[idx].initialized {
			return idx, true
		}
	}
	return 0, false
}
