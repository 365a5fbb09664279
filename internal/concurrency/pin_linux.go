//go:build linux

// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux thread affinity via sched_setaffinity, pure Go through x/sys.

package concurrency

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// platformPinCurrentThread binds the current thread to a single CPU.
// Pid 0 targets the calling thread.
func platformPinCurrentThread(numaNode, cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// platformUnpinCurrentThread restores the full CPU mask.
func platformUnpinCurrentThread() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
