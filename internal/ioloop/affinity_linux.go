//go:build linux

package ioloop

import (
	"golang.org/x/sys/unix"

	"github.com/arnegard/procloop/internal/dlog"
)

// platformMinCPUs is the smallest cpuset size sched_setaffinity accepts
// comfortably; the spec requires the bitmap be sized at least
// max(cpumask) ∪ platform_min.
const platformMinCPUs = 64

// applyCPUMask pins pid to the given cpu indices once it has been started.
// Best-effort: failures are logged, never fatal to spawn.
func applyCPUMask(pid int, mask []int) {
	if len(mask) == 0 {
		return
	}
	var set unix.CPUSet
	for _, cpu := range mask {
		set.Set(cpu)
	}
	if err := unix.SchedSetaffinity(pid, &set); err != nil {
		dlog.L().Warnw("set cpu affinity", "pid", pid, "mask", mask, "err", err)
	}
}
