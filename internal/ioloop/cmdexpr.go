package ioloop

// CommandExpr is the recursive command expression from §3: Single, Pipe,
// ErrPipe, Seq, Redirect.
type CommandExpr interface {
	commandExpr()
}

// SingleExpr wraps one leaf CommandSpec.
type SingleExpr struct{ Spec CommandSpec }

func (SingleExpr) commandExpr() {}

// PipeExpr connects A's stdout to B's stdin.
type PipeExpr struct{ A, B CommandExpr }

func (PipeExpr) commandExpr() {}

// ErrPipeExpr connects A's stderr to B's stdin.
type ErrPipeExpr struct{ A, B CommandExpr }

func (ErrPipeExpr) commandExpr() {}

// SeqExpr spawns A and B concurrently, sharing the same stdio (AndCmds
// semantics — both children inherit the same handles; interleaving of
// concurrent writes to a shared stdout is undefined, per §9).
type SeqExpr struct{ A, B CommandExpr }

func (SeqExpr) commandExpr() {}

// RedirectExpr replaces slot FD of Inner with Handle. FD is 0-indexed
// (0=stdin, 1=stdout, 2=stderr) — the Go-idiomatic choice for the spec's
// 1-based-internal/0-based-external slot indexing open question; see
// DESIGN.md.
type RedirectExpr struct {
	FD       int
	Handle   Redirectable
	Readable bool
	Inner    CommandExpr
}

func (RedirectExpr) commandExpr() {}
