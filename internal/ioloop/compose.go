package ioloop

import (
	"golang.org/x/sync/errgroup"

	"github.com/arnegard/procloop/internal/dlog"
)

// Compose recursively lowers expr over stdios, a fixed 3-slot vector
// (0=stdin, 1=stdout, 2=stderr), producing a ProcessChain in left-to-right
// spawn order (§4.4).
//
// Open-question decision (§9 "partial chain cleanup"): when a later spawn
// fails after an earlier one in the same subexpression succeeded, this
// implementation kills the already-spawned children and waits for them to
// exit before propagating the error, rather than leaving them as orphans of
// the caller's error path. Their forwarder tasks (sync_tasks) are not joined
// on this path. This is the behavior the spec flags
// as likely-correct-but-not-what-current-source-does.
func Compose(expr CommandExpr, stdios [3]SpawnSlot, syncTasks []*ForwarderTask) (*ProcessChain, error) {
	switch e := expr.(type) {

	case SingleExpr:
		p, err := SpawnOne(e.Spec, stdios, syncTasks)
		if err != nil {
			return nil, err
		}
		return &ProcessChain{Procs: []*Process{p}}, nil

	case PipeExpr:
		return composePipe(e.A, e.B, 1, stdios, syncTasks)

	case ErrPipeExpr:
		return composePipe(e.A, e.B, 2, stdios, syncTasks)

	case SeqExpr:
		chainA, err := Compose(e.A, stdios, syncTasks)
		if err != nil {
			return nil, err
		}
		chainB, err := Compose(e.B, stdios, syncTasks)
		if err != nil {
			killPartial(chainA)
			return nil, err
		}
		return mergeChains(chainA, chainB), nil

	case RedirectExpr:
		res, err := SetupStdio(e.Handle, e.Readable)
		if err != nil {
			return nil, err
		}
		nextStdios := stdios
		nextStdios[e.FD] = res.Slot
		nextTasks := syncTasks
		if res.Task != nil {
			nextTasks = append(nextTasks, res.Task)
		}
		chain, err := Compose(e.Inner, nextStdios, nextTasks)
		if res.CloseAfterSpawn {
			closeAll(res.Slot.File)
		}
		if err != nil {
			return nil, err
		}
		return chain, nil

	default:
		return nil, &InvalidArgumentError{Msg: "unknown command expression"}
	}
}

// composePipe implements both Pipe (outSlot=1, stdout) and ErrPipe
// (outSlot=2, stderr) — they differ only in which of A's slots is replaced
// by the pipe's write end (§4.4).
func composePipe(a, b CommandExpr, outSlot int, stdios [3]SpawnSlot, syncTasks []*ForwarderTask) (*ProcessChain, error) {
	read, write, err := LinkPipe(false, false)
	if err != nil {
		return nil, err
	}

	stdiosA := stdios
	stdiosA[outSlot] = loopSlot(write)
	chainA, errA := Compose(a, stdiosA, syncTasks)

	stdiosB := stdios
	stdiosB[0] = loopSlot(read)
	chainB, errB := Compose(b, stdiosB, syncTasks)

	// The children now own their duplicates; close both local ends
	// synchronously regardless of which spawn failed.
	closeAll(read, write)

	if errA != nil {
		killPartial(chainB)
		return nil, errA
	}
	if errB != nil {
		killPartial(chainA)
		return nil, errB
	}
	return mergeChains(chainA, chainB), nil
}

func mergeChains(a, b *ProcessChain) *ProcessChain {
	return &ProcessChain{Procs: append(a.Procs, b.Procs...)}
}

// killPartial force-kills every process in an already-spawned partial chain
// and waits for each to exit, without joining its forwarder tasks. Used only
// on the composition-failure path.
func killPartial(c *ProcessChain) {
	if c == nil {
		return
	}
	for _, p := range c.Procs {
		if err := p.Kill(SIGKILL); err != nil {
			dlog.L().Debugw("kill partial chain member", "pid", p.Pid(), "err", err)
		}
	}
	// Draining is independent per member, so join concurrently rather than
	// serializing on the slowest exit.
	var g errgroup.Group
	for _, p := range c.Procs {
		p := p
		g.Go(func() error { return p.Wait(false) })
	}
	_ = g.Wait()
}
