// File: adapters/affinity_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adapter implementing the api.Affinity interface, delegating to internal
// concurrency primitives for CPU pinning. An adapter instance belongs to
// the thread it pins; it is not meant for concurrent use.

package adapters

import (
	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/concurrency"
)

// AffinityAdapter implements api.Affinity using internal concurrency functions.
type AffinityAdapter struct {
	currentCPU  int
	currentNUMA int
	pinned      bool
}

// NewAffinityAdapter creates an adapter with no binding (-1/-1).
func NewAffinityAdapter() api.Affinity {
	return &AffinityAdapter{
		currentCPU:  -1,
		currentNUMA: -1,
	}
}

// Pin binds the calling thread to cpuID. A cpuID of -1 falls back to CPU 0.
func (a *AffinityAdapter) Pin(cpuID int, numaID int) error {
	if cpuID == -1 {
		cpuID = 0
	}
	if err := concurrency.PinCurrentThread(numaID, cpuID); err != nil {
		return err
	}
	a.currentCPU = cpuID
	a.currentNUMA = numaID
	a.pinned = true
	return nil
}

// Unpin clears the binding, allowing the OS scheduler to migrate the thread.
func (a *AffinityAdapter) Unpin() error {
	if err := concurrency.UnpinCurrentThread(); err != nil {
		return err
	}
	a.pinned = false
	a.currentCPU = -1
	a.currentNUMA = -1
	return nil
}

// Get returns the currently effective CPU and NUMA IDs for this adapter.
func (a *AffinityAdapter) Get() (cpuID int, numaID int, err error) {
	return a.currentCPU, a.currentNUMA, nil
}
