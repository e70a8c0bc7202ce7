package procloop

import (
	"io"
	"os"

	"github.com/arnegard/procloop/internal/ioloop"
)

// CommandSpec describes one leaf command: argv, optional environment and
// working directory, an optional cpu affinity mask, and whether a non-zero
// exit should be excluded from ProcessChain.Success/CheckSuccess.
type CommandSpec = ioloop.CommandSpec

// Redirectable is user-supplied stdio for a Redirect node: Devnull, a file,
// a filename, a raw fd, an arbitrary in-process stream, or a pipe endpoint.
type Redirectable = ioloop.Redirectable

// Devnull requests the null device.
func Devnull() Redirectable { return ioloop.Null{} }

// FromFile wraps an already-open OS file stream; its fd is used directly
// and never closed by procloop.
func FromFile(f *os.File) Redirectable { return ioloop.FileHandle{File: f} }

// FromFilename opens name for the child, truncating unless append is set.
func FromFilename(name string, append bool) Redirectable {
	return ioloop.Filename{Name: name, Append: append}
}

// FromFD wraps a raw OS file descriptor the caller owns.
func FromFD(fd uintptr) Redirectable { return ioloop.FD{Fd: fd} }

// FromReader feeds the child's stdin from an arbitrary in-process reader,
// via a background forwarder goroutine.
func FromReader(r io.Reader) Redirectable { return ioloop.Stream{Reader: r} }

// FromWriter drains the child's stdout/stderr into an arbitrary in-process
// writer, via a background forwarder goroutine.
func FromWriter(w io.Writer) Redirectable { return ioloop.Stream{Writer: w} }

// Pipe is a bidirectional pipe object the caller can pass as a Redirectable
// on each side of two independent Redirect expressions.
type Pipe = ioloop.Pipe

// NewPipe returns an unlinked bidirectional pipe object.
func NewPipe() *Pipe { return ioloop.NewPipe() }
