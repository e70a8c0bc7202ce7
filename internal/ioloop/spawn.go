package ioloop

import (
	"os/exec"
	"syscall"

	"github.com/arnegard/procloop/internal/dlog"
)

// SpawnOne marshals one CommandSpec plus a fixed 3-slot stdio vector
// (0=stdin, 1=stdout, 2=stderr — the spec's 1-indexed fd numbering shifted
// down by one to fit a Go array) into a single exec call and registers the
// resulting Process for its completion callback, per §4.3.
func SpawnOne(spec CommandSpec, slots [3]SpawnSlot, syncTasks []*ForwarderTask) (*Process, error) {
	if len(spec.Argv) == 0 {
		return nil, &InvalidArgumentError{Msg: "empty argv"}
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	// Leave Stdin/Stdout/Stderr as their nil zero value for HandleNull
	// slots: os/exec treats a nil Reader/Writer as the null device, but
	// assigning a nil *os.File through the interface would produce a
	// non-nil typed-nil interface that panics on first use, so the Null
	// case must never touch these fields.
	if slots[0].Kind != HandleNull {
		cmd.Stdin = slots[0].File
	}
	if slots[1].Kind != HandleNull {
		cmd.Stdout = slots[1].File
	}
	if slots[2].Kind != HandleNull {
		cmd.Stderr = slots[2].File
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Toggle WINDOWS_DISABLE_EXACT_NAME relative to caller semantics; the
	// loop's own default is inverted from ours (§4.3 step 5). We have no
	// real loop flags word to pass it into on this platform, so the toggle
	// is recorded for parity/logging only.
	effectiveFlags := spec.Flags() ^ WindowsDisableExactName
	dlog.L().Debugw("spawning", "argv", spec.Argv, "flags", effectiveFlags)

	loopMu.Lock()
	if err := cmd.Start(); err != nil {
		loopMu.Unlock()
		dlog.L().Debugw("spawn failed", "cmd", spec.Display(), "err", err)
		return nil, &SpawnError{Cmd: spec.Display(), Err: err}
	}
	p := newProcess(spec, cmd, syncTasks)
	associate(p.pid, p)
	loopMu.Unlock()

	if len(spec.CPUMask) > 0 {
		applyCPUMask(p.pid, spec.CPUMask)
	}

	go p.watch()

	return p, nil
}
