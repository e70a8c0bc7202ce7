// Package procloop spawns external programs, composes them into pipelines,
// wires standard I/O to arbitrary host-side streams, and tracks lifetime and
// exit status through an asynchronous event loop.
//
// The hard engineering — pipe wiring, process registration, the completion
// callback, forwarder-task joining — lives in internal/ioloop. This package
// is the thin surface over it: build a CommandExpr with Single, PipeCmd,
// ErrPipe, Seq and Redirect, then drive it with Run, Open, Read, EachLine or
// OpenFunc.
//
// # Quick start
//
//	out, err := procloop.ReadString(ctx, procloop.Single([]string{"printf", "%s", "abc"}))
//
//	chain, err := procloop.Run(ctx, procloop.PipeCmd(
//	    procloop.Single([]string{"printf", "hello"}),
//	    procloop.Single([]string{"wc", "-c"}),
//	), true)
//
// # Cross-platform notes
//
// CPU affinity (CommandSpec.CPUMask) is only honored on Linux; elsewhere it
// is accepted and silently ignored, matching the spec's "best effort"
// framing for cpumask. SIGQUIT and SIGPIPE are POSIX-only signal numbers —
// see the Signal constants.
package procloop
