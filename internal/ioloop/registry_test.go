package ioloop

import "testing"

func TestKillAfterExitIsNoop(t *testing.T) {
	p, err := SpawnOne(CommandSpec{Argv: []string{"true"}}, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("SpawnOne: %v", err)
	}
	if err := p.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := p.Kill(SIGTERM); err != nil {
		t.Fatalf("Kill after exit should be a no-op, got: %v", err)
	}
}

func TestGetpidFailsAfterExit(t *testing.T) {
	p, err := SpawnOne(CommandSpec{Argv: []string{"true"}}, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("SpawnOne: %v", err)
	}
	if err := p.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if _, err := p.Getpid(); err == nil {
		t.Fatalf("expected PidError after exit")
	}
}

func TestExitNotifyBroadcastsToMultipleWaiters(t *testing.T) {
	p, err := SpawnOne(CommandSpec{Argv: []string{"true"}}, zeroStdios(), nil)
	if err != nil {
		t.Fatalf("SpawnOne: %v", err)
	}

	const waiters = 5
	done := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() { done <- p.Wait(true) }()
	}
	for i := 0; i < waiters; i++ {
		if err := <-done; err != nil {
			t.Fatalf("waiter error: %v", err)
		}
	}
}
