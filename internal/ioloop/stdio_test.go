package ioloop

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupStdioNull(t *testing.T) {
	res, err := SetupStdio(Null{}, true)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	if res.Slot.Kind != HandleNull {
		t.Fatalf("Kind = %v, want HandleNull", res.Slot.Kind)
	}
	if res.CloseAfterSpawn {
		t.Fatalf("Null should not be marked close-after-spawn")
	}
}

func TestSetupStdioFilenameWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	res, err := SetupStdio(Filename{Name: path, Append: false}, false)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	if !res.CloseAfterSpawn {
		t.Fatalf("Filename should be marked close-after-spawn")
	}
	res.Slot.File.WriteString("hi")
	CloseSync(res.Slot.File)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestSetupStdioFilenameAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	os.WriteFile(path, []byte("a"), 0644)

	res, err := SetupStdio(Filename{Name: path, Append: true}, false)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	res.Slot.File.WriteString("b")
	CloseSync(res.Slot.File)

	got, _ := os.ReadFile(path)
	if string(got) != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestSetupStdioStreamForwardsStdin(t *testing.T) {
	res, err := SetupStdio(Stream{Reader: strings.NewReader("forwarded")}, true)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	if res.Task == nil {
		t.Fatalf("expected a forwarder task for a Stream redirect")
	}

	buf := make([]byte, len("forwarded"))
	if _, err := res.Slot.File.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "forwarded" {
		t.Fatalf("got %q, want %q", buf, "forwarded")
	}
	if err := res.Task.Wait(); err != nil {
		t.Fatalf("Task.Wait: %v", err)
	}
}

func TestSetupStdioStreamForwardsStdout(t *testing.T) {
	var out bytes.Buffer
	res, err := SetupStdio(Stream{Writer: &out}, false)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	res.Slot.File.WriteString("child wrote this")
	CloseSync(res.Slot.File)

	if err := res.Task.Wait(); err != nil {
		t.Fatalf("Task.Wait: %v", err)
	}
	if out.String() != "child wrote this" {
		t.Fatalf("got %q, want %q", out.String(), "child wrote this")
	}
}

func TestSetupStdioPipeEndpoint(t *testing.T) {
	pe := &PipeEndpoint{}
	res, err := SetupStdio(pe, true)
	if err != nil {
		t.Fatalf("SetupStdio: %v", err)
	}
	if pe.Parent() == nil {
		t.Fatalf("expected the parent-side file to be set")
	}
	if !res.CloseAfterSpawn {
		t.Fatalf("child end should be close-after-spawn")
	}
	CloseSync(res.Slot.File)
	CloseSync(pe.Parent())
}
