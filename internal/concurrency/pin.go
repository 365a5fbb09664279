// File: internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU pinning for shard threads with runtime detection.

package concurrency

import "runtime"

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to the given logical CPU. numaNode is advisory; platforms
// without NUMA policy support ignore it.
//
// The goroutine stays locked to its thread until UnpinCurrentThread.
func PinCurrentThread(numaNode, cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return ErrInvalidCPU
	}
	runtime.LockOSThread()
	return platformPinCurrentThread(numaNode, cpuID)
}

// UnpinCurrentThread removes CPU affinity constraints from the current
// thread and releases the OS-thread lock.
func UnpinCurrentThread() error {
	err := platformUnpinCurrentThread()
	runtime.UnlockOSThread()
	return err
}

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}
