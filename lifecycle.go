package procloop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/arnegard/procloop/internal/dlog"
	"github.com/arnegard/procloop/internal/ioloop"
)

// RunOption overrides one of the three default stdio slots for Run/Open.
type RunOption func(*runConfig)

type runConfig struct {
	stdin, stdout, stderr Redirectable
}

// WithStdin overrides the default stdin redirect.
func WithStdin(r Redirectable) RunOption { return func(c *runConfig) { c.stdin = r } }

// WithStdout overrides the default stdout redirect.
func WithStdout(r Redirectable) RunOption { return func(c *runConfig) { c.stdout = r } }

// WithStderr overrides the default stderr redirect.
func WithStderr(r Redirectable) RunOption { return func(c *runConfig) { c.stderr = r } }

// Run spawns expr. If wait, stdio defaults to the caller's own inherited
// stdin/stdout/stderr and Run blocks until every chain member exits,
// returning *ProcessFailed if any non-ignore_status member failed. If
// !wait, stdio defaults to Devnull and the chain is returned immediately.
func Run(ctx context.Context, expr CommandExpr, wait bool, opts ...RunOption) (*ProcessChain, error) {
	cfg := &runConfig{}
	for _, o := range opts {
		o(cfg)
	}

	var redirs [3]Redirectable
	if wait {
		redirs = [3]Redirectable{FromFile(os.Stdin), FromFile(os.Stdout), FromFile(os.Stderr)}
	} else {
		redirs = [3]Redirectable{Devnull(), Devnull(), Devnull()}
	}
	if cfg.stdin != nil {
		redirs[0] = cfg.stdin
	}
	if cfg.stdout != nil {
		redirs[1] = cfg.stdout
	}
	if cfg.stderr != nil {
		redirs[2] = cfg.stderr
	}

	slots, tasks, closers, err := setupTop(redirs)
	if err != nil {
		return nil, err
	}

	chain, err := ioloop.Compose(expr, slots, tasks)
	for _, c := range closers {
		c()
	}
	if err != nil {
		return nil, err
	}
	attachPipeEndpoints(chain, redirs)

	if !wait {
		return chain, nil
	}

	done := make(chan error, 1)
	go func() { done <- chain.Wait(true) }()
	select {
	case <-ctx.Done():
		_ = chain.Kill(SIGKILL)
		<-done
		return chain, ctx.Err()
	case err := <-done:
		if err != nil {
			return chain, err
		}
	}
	if err := chain.CheckSuccess(); err != nil {
		return chain, err
	}
	return chain, nil
}

func setupTop(redirs [3]Redirectable) ([3]ioloop.SpawnSlot, []*ioloop.ForwarderTask, []func(), error) {
	readable := [3]bool{true, false, false}
	var slots [3]ioloop.SpawnSlot
	var tasks []*ioloop.ForwarderTask
	var closers []func()
	for i, r := range redirs {
		res, err := ioloop.SetupStdio(r, readable[i])
		if err != nil {
			for _, c := range closers {
				c()
			}
			return slots, nil, nil, err
		}
		slots[i] = res.Slot
		if res.Task != nil {
			tasks = append(tasks, res.Task)
		}
		if res.CloseAfterSpawn {
			f := res.Slot.File
			closers = append(closers, func() { ioloop.CloseSync(f) })
		}
	}
	return slots, tasks, closers, nil
}

func attachPipeEndpoints(chain *ProcessChain, redirs [3]Redirectable) {
	if pe, ok := redirs[0].(*ioloop.PipeEndpoint); ok {
		if f := pe.Parent(); f != nil {
			chain.In = f
		}
	}
	if pe, ok := redirs[1].(*ioloop.PipeEndpoint); ok {
		if f := pe.Parent(); f != nil {
			chain.Out = f
		}
	}
	if pe, ok := redirs[2].(*ioloop.PipeEndpoint); ok {
		if f := pe.Parent(); f != nil {
			chain.Err = f
		}
	}
}

// OpenMode selects which directions Open creates in-process pipe endpoints
// for.
type OpenMode struct{ Read, Write bool }

// Open creates in-process pipe endpoints for the requested directions,
// passing stdio for the opposite end (default Devnull); stderr is left
// inherited. Requesting both Read and Write with a non-Devnull stdio is
// rejected since there is no single "opposite" slot to give it to.
func Open(ctx context.Context, expr CommandExpr, mode OpenMode, stdio Redirectable) (*ProcessChain, error) {
	if stdio == nil {
		stdio = Devnull()
	}
	if mode.Read && mode.Write {
		if _, isNull := stdio.(ioloop.Null); !isNull {
			return nil, &InvalidArgumentError{Msg: "open(read && write) rejects a non-Devnull stdio"}
		}
	}

	opts := []RunOption{WithStderr(FromFile(os.Stderr))}
	switch {
	case mode.Write && mode.Read:
		opts = append(opts, WithStdin(&ioloop.PipeEndpoint{}), WithStdout(&ioloop.PipeEndpoint{}))
	case mode.Write:
		opts = append(opts, WithStdin(&ioloop.PipeEndpoint{}), WithStdout(stdio))
	case mode.Read:
		opts = append(opts, WithStdin(stdio), WithStdout(&ioloop.PipeEndpoint{}))
	default:
		opts = append(opts, WithStdin(stdio), WithStdout(stdio))
	}
	return Run(ctx, expr, false, opts...)
}

// OpenFunc is the run-function-with-process-as-stream pattern: it opens
// expr, invokes fn with the resulting chain, and guarantees cleanup on every
// path (§4.7 point 2-5).
func OpenFunc(ctx context.Context, expr CommandExpr, mode OpenMode, stdio Redirectable, fn func(*ProcessChain) error) error {
	chain, err := Open(ctx, expr, mode, stdio)
	if err != nil {
		return err
	}

	if ferr := invoke(chain, fn); ferr != nil {
		cleanupOnFailure(chain)
		return ferr
	}

	if chain.In != nil {
		_ = chain.In.Close()
	}

	done := make(chan error, 1)
	go func() { done <- chain.Wait(true) }()
	select {
	case <-ctx.Done():
		_ = chain.Kill(SIGTERM)
		<-done
		return ctx.Err()
	case werr := <-done:
		if werr != nil {
			return werr
		}
	}

	if chain.Out != nil {
		buf := make([]byte, 1)
		n, rerr := chain.Out.Read(buf)
		if n > 0 {
			cleanupOnFailure(chain)
			return &PipeError{Msg: "closure returned without consuming all stdout"}
		}
		if rerr != nil && rerr != io.EOF {
			return rerr
		}
	}

	return chain.CheckSuccess()
}

// invoke runs fn and returns its error. If fn panics, invoke runs
// OpenFunc's failure cleanup first and then re-panics with the same value.
func invoke(chain *ProcessChain, fn func(*ProcessChain) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cleanupOnFailure(chain)
			panic(r)
		}
	}()
	return fn(chain)
}

// cleanupOnFailure implements §4.7 point 2: close stdin, start a 2-second
// grace timer that sends SIGTERM if the chain is still running, then wait
// without joining forwarder tasks.
func cleanupOnFailure(chain *ProcessChain) {
	if chain.In != nil {
		_ = chain.In.Close()
	}
	timer := time.AfterFunc(2*time.Second, func() {
		if anyRunning(chain) {
			dlog.L().Debugw("grace timer expired, sending SIGTERM")
			_ = chain.Kill(SIGTERM)
		}
	})
	_ = chain.Wait(false)
	timer.Stop()
}

func anyRunning(chain *ProcessChain) bool {
	for _, p := range chain.Procs {
		if p.Running() {
			return true
		}
	}
	return false
}

// Read runs expr and returns everything it wrote to stdout.
func Read(ctx context.Context, expr CommandExpr) ([]byte, error) {
	var buf bytes.Buffer
	err := OpenFunc(ctx, expr, OpenMode{Read: true}, nil, func(c *ProcessChain) error {
		_, err := io.Copy(&buf, c.Out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadString is Read decoded as text.
func ReadString(ctx context.Context, expr CommandExpr) (string, error) {
	b, err := Read(ctx, expr)
	return string(b), err
}

// EachLine streams expr's stdout line by line, calling fn for each. At the
// end it asserts Success, raising otherwise.
func EachLine(ctx context.Context, expr CommandExpr, keepNewline bool, fn func(string) error) error {
	return OpenFunc(ctx, expr, OpenMode{Read: true}, nil, func(c *ProcessChain) error {
		scanner := bufio.NewScanner(c.Out)
		for scanner.Scan() {
			line := scanner.Text()
			if keepNewline {
				line += "\n"
			}
			if err := fn(line); err != nil {
				return err
			}
		}
		return scanner.Err()
	})
}
