//go:build !linux

package ioloop

import "github.com/arnegard/procloop/internal/dlog"

// applyCPUMask is a no-op outside Linux; sched_setaffinity has no portable
// equivalent and the spec treats cpumask as best-effort.
func applyCPUMask(pid int, mask []int) {
	if len(mask) != 0 {
		dlog.L().Debugw("cpu affinity not supported on this platform", "pid", pid)
	}
}
