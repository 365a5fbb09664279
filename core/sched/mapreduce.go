// File: core/sched/mapreduce.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Local aggregation over one slot: an asynchronous left fold across this
// shard's initialized groups. Nothing here crosses shards; aggregating
// cluster-wide values means running the local fold on every shard and
// combining the results at a higher layer.

package sched

import (
	"reflect"

	"github.com/momentics/hioload-sched/core/future"
)

// MapReduceLocal folds mapper results over this shard's initialized
// group records for key, in ascending group-index order.
//
// The fold is a strict left fold: reduce for group k completes before
// group k+1's mapper result is consumed. Mappers may return pending
// futures; the fold then suspends and other tasks of the shard run until
// the value settles. Groups not initialized on this shard are skipped,
// lazily, at the moment their step would run. The first failure (a
// failed mapper future or a reduce error) settles the returned future
// with that error and stops the fold.
//
// Owning-shard only: call it from task context. V must be key's
// registered element type; a mismatch faults before any record is read.
func MapReduceLocal[V, M, A any](sh *Shard, key SlotKey, mapper func(*V) *future.Future[M], reduce func(A, M) (A, error), initial A) *future.Future[A] {
	sh.table.checkSlotType(key.id, reflect.TypeOf((*V)(nil)).Elem())
	cur := cursor{t: sh.table}
	next := func() (*future.Future[M], bool) {
		idx, ok := cur.advance()
		if !ok {
			return nil, false
		}
		cell := sh.table.slotCell(idx, key.id)
		return mapper(cell.(*V)), true
	}
	return future.Fold(next, reduce, initial)
}

// ReduceLocal is MapReduceLocal with an identity mapper: reduce receives
// a copy of each initialized group's stored value for key.
func ReduceLocal[V, A any](sh *Shard, key SlotKey, reduce func(A, V) (A, error), initial A) *future.Future[A] {
	return MapReduceLocal(sh, key, func(v *V) *future.Future[V] {
		return future.Ready(*v)
	}, reduce, initial)
}
