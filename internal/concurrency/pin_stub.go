//go:build !linux

// File: internal/concurrency/pin_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub affinity for platforms without sched_setaffinity. The OS-thread
// lock still applies; the CPU binding itself is reported unsupported.

package concurrency

func platformPinCurrentThread(numaNode, cpuID int) error {
	return ErrAffinityNotSupported
}

func platformUnpinCurrentThread() error {
	return nil
}
