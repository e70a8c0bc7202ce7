package procloop

import "github.com/arnegard/procloop/internal/ioloop"

// Error types, matching §7 of the design this package implements.
type (
	InvalidArgumentError = ioloop.InvalidArgumentError
	SpawnError           = ioloop.SpawnError
	KillError             = ioloop.KillError
	PidError              = ioloop.PidError
	ProcessFailed         = ioloop.ProcessFailed
	IoForwardError        = ioloop.IoForwardError
	PipeError             = ioloop.PipeError
)

// Signal constants.
const (
	SIGHUP  = ioloop.SIGHUP
	SIGINT  = ioloop.SIGINT
	SIGQUIT = ioloop.SIGQUIT
	SIGKILL = ioloop.SIGKILL
	SIGPIPE = ioloop.SIGPIPE
	SIGTERM = ioloop.SIGTERM
)
