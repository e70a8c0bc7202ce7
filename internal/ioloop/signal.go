package ioloop

import "syscall"

// Signal constants exposed per §4.6. Windows lacks SIGQUIT/SIGPIPE; callers
// on that platform should not rely on those two.
const (
	SIGHUP  = syscall.Signal(1)
	SIGINT  = syscall.Signal(2)
	SIGQUIT = syscall.Signal(3)
	SIGKILL = syscall.Signal(9)
	SIGPIPE = syscall.Signal(13)
	SIGTERM = syscall.Signal(15)
)
