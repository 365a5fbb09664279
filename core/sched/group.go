// File: core/sched/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

// MaxGroups bounds how many scheduling groups may exist at once. Group
// indexes are dense, zero-based, and reused after destruction.
const MaxGroups = 16

// DefaultShares is the scheduling weight of the default group and the
// usual baseline for new groups.
const DefaultShares = 1000

// Group is an opaque handle to a scheduling group. The zero value is the
// default group. Handles are small, comparable, and freely copyable.
type Group struct {
	id int
}

// DefaultGroup returns the always-present group with index 0.
func DefaultGroup() Group {
	return Group{}
}

// MakeGroup wraps a dense group index in a handle. Runtime internals use
// it when allocating groups; applications receive handles from the
// runtime and never fabricate them.
func MakeGroup(index int) Group {
	return Group{id: index}
}

// Index returns the group's dense identifier, for diagnostics and
// ordering. Fold iteration over groups follows ascending Index order.
func (g Group) Index() int {
	return g.id
}
