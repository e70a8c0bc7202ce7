package procloop

import "github.com/arnegard/procloop/internal/ioloop"

// Process is one spawned leaf command. Its handle (the underlying OS
// process) is mutated only by the completion callback and by Kill/Getpid,
// per §3/§5 of the design this package implements; see internal/ioloop.
type Process = ioloop.Process

// ProcessChain is an ordered sequence of processes spawned from one
// CommandExpr, in left-to-right spawn order.
type ProcessChain = ioloop.ProcessChain
