package ioloop

import (
	"io"
	"os"

	"github.com/arnegard/procloop/internal/dlog"
)

// ForwarderTask copies bytes between an in-process stream and one end of an
// OS pipe until EOF, then closes its owned endpoint. It is joinable via
// Wait, which blocks until the task finishes.
type ForwarderTask struct {
	done chan struct{}
	err  error
}

// startForwarder launches a task copying from copyFrom to copyTo and closing
// own (the parent-side pipe end procloop owns) once the copy returns, in
// either direction.
//
//   - stdin direction:  copyFrom = user Reader,  copyTo = parent pipe write end
//   - stdout/err direction: copyFrom = parent pipe read end, copyTo = user Writer
func startForwarder(copyFrom io.Reader, copyTo io.Writer, own *os.File) *ForwarderTask {
	t := &ForwarderTask{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer CloseSync(own)
		_, err := io.Copy(copyTo, copyFrom)
		if err != nil {
			dlog.L().Warnw("forwarder task error", "err", err)
			t.err = &IoForwardError{Err: err}
		}
	}()
	return t
}

// Wait blocks until the task has copied to EOF and closed its owned end.
func (t *ForwarderTask) Wait() error {
	<-t.done
	return t.err
}
