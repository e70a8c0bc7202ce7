package ioloop

import (
	"os"
	"testing"
)

func TestSpawnOneEmptyArgv(t *testing.T) {
	_, err := SpawnOne(CommandSpec{}, [3]SpawnSlot{}, nil)
	if err == nil {
		t.Fatalf("expected InvalidArgumentError for empty argv")
	}
	if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("got %T, want *InvalidArgumentError", err)
	}
}

func TestSpawnOneTrue(t *testing.T) {
	p, err := SpawnOne(CommandSpec{Argv: []string{"true"}}, [3]SpawnSlot{nullSlot(), nullSlot(), nullSlot()}, nil)
	if err != nil {
		t.Fatalf("SpawnOne: %v", err)
	}
	if !p.Running() {
		t.Fatalf("expected process to be running right after spawn")
	}
	if err := p.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !p.Exited() {
		t.Fatalf("expected process exited after Wait")
	}
	if p.ExitCode() != 0 {
		t.Fatalf("exit code = %d, want 0", p.ExitCode())
	}
}

func TestSpawnOneBadProgram(t *testing.T) {
	_, err := SpawnOne(CommandSpec{Argv: []string{"procloop-definitely-not-a-real-binary"}}, [3]SpawnSlot{nullSlot(), nullSlot(), nullSlot()}, nil)
	if err == nil {
		t.Fatalf("expected SpawnError for a nonexistent program")
	}
	if _, ok := err.(*SpawnError); !ok {
		t.Fatalf("got %T, want *SpawnError", err)
	}
}

func TestSpawnOneRedirectsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.txt"
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	p, err := SpawnOne(CommandSpec{Argv: []string{"printf", "hi"}}, [3]SpawnSlot{nullSlot(), fdSlot(f), nullSlot()}, nil)
	if err != nil {
		t.Fatalf("SpawnOne: %v", err)
	}
	if err := p.Wait(true); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("file contents = %q, want %q", got, "hi")
	}
}
