package procloop

import "github.com/arnegard/procloop/internal/ioloop"

// CommandExpr is the recursive command-expression type: Single, Pipe,
// ErrPipe, Seq, Redirect.
type CommandExpr = ioloop.CommandExpr

// Single wraps one leaf command. argv must be non-empty.
func Single(argv []string, opts ...SpecOption) CommandExpr {
	spec := CommandSpec{Argv: argv}
	for _, o := range opts {
		o(&spec)
	}
	return ioloop.SingleExpr{Spec: spec}
}

// SpecOption configures a CommandSpec built by Single.
type SpecOption func(*CommandSpec)

// WithEnv replaces the inherited environment entirely, even with an empty
// slice.
func WithEnv(env []string) SpecOption { return func(s *CommandSpec) { s.Env = env } }

// WithDir sets the child's working directory.
func WithDir(dir string) SpecOption { return func(s *CommandSpec) { s.Dir = dir } }

// WithCPUMask pins the child to the given cpu indices (Linux only; a no-op
// elsewhere).
func WithCPUMask(cpus []int) SpecOption { return func(s *CommandSpec) { s.CPUMask = cpus } }

// WithIgnoreStatus excludes this command's exit status from
// ProcessChain.Success/CheckSuccess.
func WithIgnoreStatus() SpecOption { return func(s *CommandSpec) { s.IgnoreStatus = true } }

// PipeCmd connects a's stdout to b's stdin.
func PipeCmd(a, b CommandExpr) CommandExpr { return ioloop.PipeExpr{A: a, B: b} }

// ErrPipe connects a's stderr to b's stdin.
func ErrPipe(a, b CommandExpr) CommandExpr { return ioloop.ErrPipeExpr{A: a, B: b} }

// Seq spawns a and b concurrently sharing the same stdio (AndCmds
// semantics); interleaving of writes to shared stdio is undefined.
func Seq(a, b CommandExpr) CommandExpr { return ioloop.SeqExpr{A: a, B: b} }

// Redirect replaces stdio slot fd (0=stdin, 1=stdout, 2=stderr) of inner
// with handle. readable must be true for fd==0 and false otherwise.
func Redirect(fd int, handle Redirectable, readable bool, inner CommandExpr) CommandExpr {
	return ioloop.RedirectExpr{FD: fd, Handle: handle, Readable: readable, Inner: inner}
}
