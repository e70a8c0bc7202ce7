package ioloop

import "testing"

func TestLinkPipeRoundTrip(t *testing.T) {
	read, write, err := LinkPipe(false, false)
	if err != nil {
		t.Fatalf("LinkPipe: %v", err)
	}
	defer closeAll(read, write)

	msg := []byte("hello pipe")
	go func() {
		write.Write(msg)
		write.Close()
	}()

	buf := make([]byte, len(msg))
	if _, err := read.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != string(msg) {
		t.Fatalf("got %q, want %q", buf, msg)
	}
}

func TestCloseSyncNil(t *testing.T) {
	if err := CloseSync(nil); err != nil {
		t.Fatalf("CloseSync(nil) = %v, want nil", err)
	}
}
