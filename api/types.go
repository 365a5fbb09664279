// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "time"

// GroupState enumerates the lifecycle state of a scheduling group index.
type GroupState int

const (
	GroupFree GroupState = iota
	GroupActive
	GroupDraining
)

func (s GroupState) String() string {
	switch s {
	case GroupActive:
		return "active"
	case GroupDraining:
		return "draining"
	default:
		return "free"
	}
}

// GroupInfo describes one scheduling group for diagnostics.
type GroupInfo struct {
	Index  int
	Name   string
	Shares uint
	State  GroupState
}

// RuntimeInfo exposes descriptive build- and runtime info for external tools.
type RuntimeInfo struct {
	ID        string
	Name      string
	Version   string
	Shards    int
	StartedAt time.Time
}
