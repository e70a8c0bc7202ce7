package ioloop

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/arnegard/procloop/internal/dlog"
)

// StdioResult is what SetupStdio produces for one Redirectable: the slot to
// pass to the spawn call, whether the parent must close it after spawn, and
// (for arbitrary in-process streams) the forwarder task to record into the
// process's sync_tasks.
type StdioResult struct {
	Slot            SpawnSlot
	CloseAfterSpawn bool
	Task            *ForwarderTask
}

// SetupStdio converts one Redirectable into a SpawnSlot, per the rules in
// §4.2. childReadable is true for slot 0 (stdin), false for stdout/stderr.
// On any failure every endpoint already acquired for r is closed before the
// error returns, so the caller never owns a half-open pipe.
func SetupStdio(r Redirectable, childReadable bool) (res StdioResult, err error) {
	switch v := r.(type) {
	case Null:
		return StdioResult{Slot: nullSlot()}, nil

	case FileHandle:
		return StdioResult{Slot: fdSlot(v.File)}, nil

	case Filename:
		flag := os.O_WRONLY | os.O_CREATE
		if childReadable {
			flag = os.O_RDONLY
		} else if v.Append {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		f, openErr := os.OpenFile(v.Name, flag, 0644)
		if openErr != nil {
			return StdioResult{}, fmt.Errorf("procloop: open %q: %w", v.Name, openErr)
		}
		return StdioResult{Slot: fdSlot(f), CloseAfterSpawn: true}, nil

	case FD:
		return StdioResult{Slot: fdSlot(os.NewFile(v.Fd, "fd"))}, nil

	case *PipeEndpoint:
		// Uninitialized pipe endpoint: create a linked pair, attach the
		// parent-side end to v, hand the other end to the child.
		read, write, linkErr := LinkPipe(false, false)
		if linkErr != nil {
			return StdioResult{}, linkErr
		}
		if childReadable {
			v.setParent(write)
			return StdioResult{Slot: loopSlot(read), CloseAfterSpawn: true}, nil
		}
		v.setParent(read)
		return StdioResult{Slot: loopSlot(write), CloseAfterSpawn: true}, nil

	case *Pipe:
		// Bidirectional pipe object: link if needed, return the matching
		// end, leave the other for the caller. No close-after-spawn — the
		// caller owns the opposite end.
		if err := v.ensureLinked(); err != nil {
			return StdioResult{}, err
		}
		if childReadable {
			return StdioResult{Slot: loopSlot(v.read)}, nil
		}
		return StdioResult{Slot: loopSlot(v.write)}, nil

	case Stream:
		return setupStreamForward(v, childReadable)

	default:
		return StdioResult{}, &InvalidArgumentError{Msg: fmt.Sprintf("unsupported redirectable %T", r)}
	}
}

// setupStreamForward allocates an internal pipe and starts a forwarder task
// bridging the user's Reader/Writer to the child-side end, wrapping the
// child end so wait-join can recover the task (the spec's SyncCloseFD).
func setupStreamForward(s Stream, childReadable bool) (StdioResult, error) {
	read, write, err := LinkPipe(false, false)
	if err != nil {
		return StdioResult{}, err
	}

	id := uuid.NewString()
	if childReadable {
		if s.Reader == nil {
			closeAll(read, write)
			return StdioResult{}, &InvalidArgumentError{Msg: "Stream redirect for stdin needs a Reader"}
		}
		dlog.L().Debugw("starting stdin forwarder", "id", id)
		task := startForwarder(s.Reader, write, write)
		return StdioResult{Slot: loopSlot(read), CloseAfterSpawn: true, Task: task}, nil
	}

	if s.Writer == nil {
		closeAll(read, write)
		return StdioResult{}, &InvalidArgumentError{Msg: "Stream redirect for stdout/stderr needs a Writer"}
	}
	dlog.L().Debugw("starting stdout/stderr forwarder", "id", id)
	task := startForwarder(read, s.Writer, read)
	return StdioResult{Slot: loopSlot(write), CloseAfterSpawn: true, Task: task}, nil
}
