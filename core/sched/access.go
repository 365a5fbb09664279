// File: core/sched/access.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed accessors over the shard's slot table. All of them verify the
// requested type against the registry before reading any cell; a
// mismatch faults immediately, never after a cast.

package sched

import (
	"reflect"

	"github.com/momentics/hioload-sched/api"
)

// SpecificPtr returns g's value for key on this shard, or nil when the
// group index is out of range or the group is not initialized here.
// Owning-shard only: call it from task context.
func SpecificPtr[T any](sh *Shard, g Group, key SlotKey) *T {
	sh.table.checkSlotType(key.id, reflect.TypeOf((*T)(nil)).Elem())
	cell := sh.table.slotCell(g.id, key.id)
	if cell == nil {
		return nil
	}
	return cell.(*T)
}

// Specific is SpecificPtr for callers that know the group exists: where
// SpecificPtr would return nil, Specific faults instead.
func Specific[T any](sh *Shard, g Group, key SlotKey) *T {
	p := SpecificPtr[T](sh, g, key)
	if p == nil {
		panic(api.NewError(api.ErrCodeNoSuchGroup, "no such scheduling group").
			WithContext("group", g.id).
			WithContext("shard", sh.id))
	}
	return p
}

// CurrentSpecific resolves key under the group of the task that is
// currently running on sh.
func CurrentSpecific[T any](sh *Shard, key SlotKey) *T {
	return Specific[T](sh, sh.CurrentGroup(), key)
}
