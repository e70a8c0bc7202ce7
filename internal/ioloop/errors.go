package ioloop

import "fmt"

// InvalidArgumentError covers empty argv and contradictory mode combinations.
type InvalidArgumentError struct{ Msg string }

func (e *InvalidArgumentError) Error() string { return "procloop: invalid argument: " + e.Msg }

// SpawnError wraps a loop (os/exec) spawn failure together with the
// command's displayable form.
type SpawnError struct {
	Cmd string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("procloop: spawn %q: %v", e.Cmd, e.Err)
}
func (e *SpawnError) Unwrap() error { return e.Err }

// KillError wraps a kill(2)-equivalent failure other than ESRCH.
type KillError struct{ Err error }

func (e *KillError) Error() string { return fmt.Sprintf("procloop: kill: %v", e.Err) }
func (e *KillError) Unwrap() error { return e.Err }

// PidError reports that the handle is gone (ESRCH-equivalent on getpid).
type PidError struct{}

func (e *PidError) Error() string { return "procloop: getpid: no such process" }

// ProcessFailed reports one or more chain members that exited non-zero and
// did not set IgnoreStatus. Procs holds the failing members in spawn order.
type ProcessFailed struct{ Procs []*Process }

func (e *ProcessFailed) Error() string {
	s := "procloop: process(es) failed:"
	for _, p := range e.Procs {
		s += fmt.Sprintf(" [%s exit=%d sig=%d]", p.Spec.Display(), p.ExitCode(), p.TermSignal())
	}
	return s
}

// IoForwardError reports a forwarder task failure. It is surfaced to
// whoever awaits the task (ForwarderTask.Wait), and logged as a warning at
// the point it occurs.
type IoForwardError struct{ Err error }

func (e *IoForwardError) Error() string { return fmt.Sprintf("procloop: io forward: %v", e.Err) }
func (e *IoForwardError) Unwrap() error { return e.Err }

// PipeError reports the EPIPE-equivalent condition from the run-with-cleanup
// pattern: the user closure returned without consuming all of stdout.
type PipeError struct{ Msg string }

func (e *PipeError) Error() string { return "procloop: EPIPE: " + e.Msg }
