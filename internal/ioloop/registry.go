package ioloop

import (
	"io"
	"math"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/arnegard/procloop/internal/dlog"
)

// loopMu is the spec's single event-loop lock (iolock). Spawn, associate,
// kill and getpid all run while holding it, and per §5 none of them may
// suspend while doing so.
var loopMu sync.Mutex

// registry maps a live pid (the spec's "handle identity") to its owning
// Process from spawn until the completion callback runs. The map holds a
// strong reference to each entry. The completion callback (watch, below) is
// a method on the Process itself and does not look the Process up here.
var registry = map[int]*Process{}

func associate(pid int, p *Process) { registry[pid] = p }

func disassociate(pid int) { delete(registry, pid) }

const exitCodeSentinel = math.MinInt64
const termSignalSentinel = math.MinInt32

// Process is one spawned leaf command, long-lived per spec §3.
type Process struct {
	Spec CommandSpec

	mu         sync.Mutex
	cmd        *exec.Cmd // nil ⇔ handle == null (process torn down)
	pid        int
	exitCode   int64
	termSignal int32

	In  io.WriteCloser
	Out io.ReadCloser
	Err io.ReadCloser

	syncTasks []*ForwarderTask

	exitNotify chan struct{}
	exitOnce   sync.Once

	preserve int32 // atomic; prevents the finalizer racing an in-flight Wait
}

func newProcess(spec CommandSpec, cmd *exec.Cmd, syncTasks []*ForwarderTask) *Process {
	p := &Process{
		Spec:       spec,
		cmd:        cmd,
		pid:        cmd.Process.Pid,
		exitCode:   exitCodeSentinel,
		termSignal: termSignalSentinel,
		syncTasks:  syncTasks,
		exitNotify: make(chan struct{}),
	}
	runtime.SetFinalizer(p, finalizeProcess)
	return p
}

// finalizeProcess kills the process if p.cmd is still set when p is
// collected, and backs off while a Wait is in flight (preserve > 0). While
// the process runs, both its registry entry and the watch goroutine hold p,
// so p is not collected before watch has cleared p.cmd; in practice the
// finalizer then finds no live handle and does nothing. A Process dropped
// while its child runs is not killed; watch still reaps the child when it
// exits.
func finalizeProcess(p *Process) {
	if atomic.LoadInt32(&p.preserve) > 0 {
		runtime.SetFinalizer(p, finalizeProcess)
		return
	}
	loopMu.Lock()
	cmd := p.cmd
	loopMu.Unlock()
	if cmd != nil && cmd.Process != nil {
		dlog.L().Debugw("finalizing abandoned process", "pid", p.pid)
		_ = cmd.Process.Kill()
	}
}

// watch is the spec's completion callback. It runs on whichever goroutine
// cmd.Wait unblocks on — an arbitrary OS thread from the Go scheduler's
// point of view, exactly as the spec warns the real callback may run on any
// thread after a successful spawn.
func (p *Process) watch() {
	err := p.cmd.Wait()

	var exitCode int64
	var termSignal int32
	if err == nil {
		exitCode = 0
	} else if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				termSignal = int32(ws.Signal())
				exitCode = -1
			} else {
				exitCode = int64(ws.ExitStatus())
			}
		} else {
			exitCode = int64(exitErr.ExitCode())
		}
	} else {
		// could-not-start-equivalent surfaced late; reported as the
		// negative exit code -1 (§6).
		exitCode = -1
	}

	loopMu.Lock()
	p.mu.Lock()
	p.exitCode = exitCode
	p.termSignal = termSignal
	p.cmd = nil
	p.mu.Unlock()
	disassociate(p.pid)
	loopMu.Unlock()

	p.exitOnce.Do(func() { close(p.exitNotify) })
}

// Running reports whether the handle is still live.
func (p *Process) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// Exited is the negation of Running.
func (p *Process) Exited() bool { return !p.Running() }

// Signaled reports whether the process died from a signal.
func (p *Process) Signaled() bool { return p.TermSignal() > 0 }

// ExitCode returns the raw exit status; only meaningful once Exited.
func (p *Process) ExitCode() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

// TermSignal returns the terminating signal number, or 0 if none.
func (p *Process) TermSignal() int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.termSignal
}

// Pid returns the pid recorded at spawn time, even after the process exits.
func (p *Process) Pid() int { return p.pid }

// Wait blocks until the process has exited and, if joinSync, until every
// forwarder task recorded in syncTasks has also finished.
func (p *Process) Wait(joinSync bool) error {
	atomic.AddInt32(&p.preserve, 1)
	defer atomic.AddInt32(&p.preserve, -1)

	<-p.exitNotify

	if !joinSync {
		return nil
	}
	// The forwarder tasks are independent of each other, so join them
	// concurrently instead of serializing on whichever happens to be slowest.
	var g errgroup.Group
	for _, t := range p.syncTasks {
		t := t
		g.Go(t.Wait)
	}
	return g.Wait()
}

// Kill delivers sig to the process. ESRCH (process already gone) is treated
// as success, matching §4.6.
func (p *Process) Kill(sig syscall.Signal) error {
	loopMu.Lock()
	defer loopMu.Unlock()

	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Signal(sig); err != nil {
		if isAlreadyGone(err) {
			return nil
		}
		return &KillError{Err: err}
	}
	return nil
}

// Getpid returns the live OS pid under the loop lock, failing if the handle
// is already gone.
func (p *Process) Getpid() (int, error) {
	loopMu.Lock()
	defer loopMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.pid <= 0 {
		return 0, &PidError{}
	}
	return p.pid, nil
}

func isAlreadyGone(err error) bool {
	if err == nil {
		return false
	}
	if errno, ok := err.(syscall.Errno); ok {
		return errno == syscall.ESRCH
	}
	return err.Error() == "os: process already finished"
}

// ProcessChain is an ordered sequence of processes spawned from one command
// expression, in left-to-right spawn order (§3).
type ProcessChain struct {
	Procs []*Process
	In    io.WriteCloser
	Out   io.ReadCloser
	Err   io.ReadCloser
}

// Wait waits every process in spawn order, which also defines error
// reporting order per §5.
func (c *ProcessChain) Wait(joinSync bool) error {
	var first error
	for _, p := range c.Procs {
		if err := p.Wait(joinSync); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Success reports whether every non-ignore_status member exited 0 and was
// not signaled.
func (c *ProcessChain) Success() bool {
	return c.CheckSuccess() == nil
}

// CheckSuccess returns a *ProcessFailed naming every offending member, or nil.
func (c *ProcessChain) CheckSuccess() error {
	var failed []*Process
	for _, p := range c.Procs {
		if p.Spec.IgnoreStatus {
			continue
		}
		if p.ExitCode() != 0 || p.TermSignal() > 0 {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		return &ProcessFailed{Procs: failed}
	}
	return nil
}

// Kill signals every member of the chain.
func (c *ProcessChain) Kill(sig syscall.Signal) error {
	var first error
	for _, p := range c.Procs {
		if err := p.Kill(sig); err != nil && first == nil {
			first = err
		}
	}
	return first
}
