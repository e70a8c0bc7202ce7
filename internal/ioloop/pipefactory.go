package ioloop

import (
	"os"

	"github.com/arnegard/procloop/internal/dlog"
)

// LinkPipe creates a unidirectional OS pipe. The nonblock arguments are
// accepted for fidelity with the spec's link_pipe(read_nonblock,
// write_nonblock) signature; Go's os.Pipe always returns blocking ends, and
// forwarder tasks rely on that, so both arguments are currently advisory.
func LinkPipe(readNonblock, writeNonblock bool) (read, write *os.File, err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}
	return r, w, nil
}

// CloseSync closes one end of a pipe synchronously. Closing an already-closed
// end is a programming error in the spec; os.File.Close already returns
// os.ErrClosed in that case rather than corrupting state, so callers that
// double-close only see a benign error.
func CloseSync(end *os.File) error {
	if end == nil {
		return nil
	}
	if err := end.Close(); err != nil {
		dlog.L().Debugw("pipe close", "fd", end.Fd(), "err", err)
		return err
	}
	return nil
}

// closeAll is the scoped-acquisition helper: close every non-nil file in
// ends, collecting nothing — on the setup-failure path the original error
// dominates and close errors are only logged.
func closeAll(ends ...*os.File) {
	for _, e := range ends {
		if e != nil {
			_ = CloseSync(e)
		}
	}
}
