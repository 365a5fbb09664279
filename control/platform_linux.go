//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific platform metrics and debug probe integrations.

package control

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// RegisterPlatformProbes sets Linux-specific debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.uptime_sec", func() any {
		var si unix.Sysinfo_t
		if err := unix.Sysinfo(&si); err != nil {
			return int64(0)
		}
		return int64(si.Uptime)
	})
	dp.RegisterProbe("platform.kernel", func() any {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err != nil {
			return "unknown"
		}
		return unix.ByteSliceToString(uts.Release[:])
	})
}
