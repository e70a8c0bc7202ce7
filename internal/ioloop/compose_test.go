package ioloop

import "testing"

func zeroStdios() [3]SpawnSlot {
	return [3]SpawnSlot{nullSlot(), nullSlot(), nullSlot()}
}

func TestComposeSingle(t *testing.T) {
	chain, err := Compose(SingleExpr{Spec: CommandSpec{Argv: []string{"true"}}}, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(chain.Procs) != 1 {
		t.Fatalf("len(Procs) = %d, want 1", len(chain.Procs))
	}
	if err := chain.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !chain.Success() {
		t.Fatalf("expected success")
	}
}

func TestComposeSeqSpawnOrder(t *testing.T) {
	expr := SeqExpr{
		A: SingleExpr{Spec: CommandSpec{Argv: []string{"true"}}},
		B: SingleExpr{Spec: CommandSpec{Argv: []string{"false"}}},
	}
	chain, err := Compose(expr, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(chain.Procs) != 2 {
		t.Fatalf("len(Procs) = %d, want 2", len(chain.Procs))
	}
	if chain.Procs[0].Spec.Argv[0] != "true" || chain.Procs[1].Spec.Argv[0] != "false" {
		t.Fatalf("expected spawn order [true, false], got [%s, %s]",
			chain.Procs[0].Spec.Argv[0], chain.Procs[1].Spec.Argv[0])
	}
	if err := chain.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := chain.CheckSuccess(); err == nil {
		t.Fatalf("expected CheckSuccess to report the false member")
	}
}

func TestComposeCompositionFailureKillsPartialChain(t *testing.T) {
	expr := SeqExpr{
		A: SingleExpr{Spec: CommandSpec{Argv: []string{"sleep", "30"}}},
		B: SingleExpr{Spec: CommandSpec{}}, // empty argv: always fails to spawn
	}
	chain, err := Compose(expr, zeroStdios(), nil)
	if err == nil {
		t.Fatalf("expected composition to fail")
	}
	if chain != nil {
		t.Fatalf("expected no partial chain handed back on failure")
	}
	// The open-question policy this implementation picked: the sleep
	// spawned for A must have been killed, not orphaned.
	loopMu.Lock()
	defer loopMu.Unlock()
	for _, p := range registry {
		if p.Spec.Display() == "sleep 30" {
			t.Fatalf("the sleep spawned for A is still registered as running")
		}
	}
}

func TestComposePipeClosesLocalEnds(t *testing.T) {
	expr := PipeExpr{
		A: SingleExpr{Spec: CommandSpec{Argv: []string{"printf", "x"}}},
		B: SingleExpr{Spec: CommandSpec{Argv: []string{"cat"}}},
	}
	chain, err := Compose(expr, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(chain.Procs) != 2 {
		t.Fatalf("len(Procs) = %d, want 2", len(chain.Procs))
	}
	if err := chain.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
