package terminal

import (
	"os"
	"testing"
	"time"
)

func newTestIn(t *testing.T) (*In, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	in := NewIn(r)
	if err := in.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	t.Cleanup(func() {
		in.End()
		r.Close()
		w.Close()
	})
	return in, w
}

func readOne(t *testing.T, in *In) int32 {
	t.Helper()
	in.Select(time.Second)
	return in.Read()
}

func TestInPassesPlainBytesThrough(t *testing.T) {
	in, w := newTestIn(t)
	w.Write([]byte("a"))
	if got := readOne(t, in); got != 'a' {
		t.Fatalf("got %d, want 'a'", got)
	}
}

func TestInPassesCSISequenceThrough(t *testing.T) {
	in, w := newTestIn(t)
	w.Write([]byte("\x1b[A"))
	var got []int32
	for i := 0; i < 3; i++ {
		got = append(got, readOne(t, in))
	}
	want := []int32{0x1b, '[', 'A'}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInLoneEscapeDefaultsRaw(t *testing.T) {
	in, w := newTestIn(t)
	w.Write([]byte{0x1b})
	if got := readOne(t, in); got != 0x1b {
		t.Fatalf("got %d, want ESC (0x1b) under EscapeRaw policy", got)
	}
}

func TestInLoneEscapeCtrlCPolicy(t *testing.T) {
	in, w := newTestIn(t)
	in.EscapePolicy = EscapeCtrlC
	w.Write([]byte{0x1b})
	if got := readOne(t, in); got != 0x03 {
		t.Fatalf("got %d, want Ctrl-C (0x03) under EscapeCtrlC policy", got)
	}
}

func TestInLoneEscapeRevertLinePolicy(t *testing.T) {
	in, w := newTestIn(t)
	in.EscapePolicy = EscapeRevertLine
	w.Write([]byte{0x1b})
	var got []int32
	for i := 0; i < 3; i++ {
		got = append(got, readOne(t, in))
	}
	want := []int32{0x1b, '[', 'M'}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInSelectTimesOutWithNoInput(t *testing.T) {
	in, _ := newTestIn(t)
	in.Select(10 * time.Millisecond)
	if got := in.Read(); got != InputTimeout {
		t.Fatalf("got %d, want InputTimeout", got)
	}
}
