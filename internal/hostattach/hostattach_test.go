package hostattach

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestInitialiseRequiresStateDir(t *testing.T) {
	if _, err := Initialise(Desc{}); err == nil {
		t.Fatalf("Initialise with empty StateDir should fail")
	}
}

func TestInitialiseCreatesStateDirAndPersistsOnShutdown(t *testing.T) {
	dir := t.TempDir()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	defer ptmx.Close()

	a, err := Initialise(Desc{
		StateDir: dir,
		Quiet:    true,
		In:       tty,
		Out:      tty,
		Prompt:   "$ ",
	})
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if a.Settings == nil || a.History == nil || a.Kernel == nil {
		t.Fatalf("Initialise left a component nil: %+v", a)
	}
	if _, err := os.Stat(filepath.Join(dir, "clink_history")); err != nil {
		t.Fatalf("master history bank not created: %v", err)
	}

	shared, ok := a.Settings.Find("history.shared")
	if !ok {
		t.Fatalf("history.shared not registered")
	}
	shared.Set("true")

	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("second Shutdown should be a no-op, got: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "clink_settings"))
	if err != nil {
		t.Fatalf("ReadFile clink_settings: %v", err)
	}
	if got := string(data); got == "" {
		t.Fatalf("clink_settings should contain the modified history.shared setting")
	}

	tty.Close()
}

// TestAttachmentDrivesEditLoopOverPty exercises the attach -> read-intercept
// -> editor-loop -> return-line path end to end: bytes typed into the pty's
// master side arrive at the Kernel through terminal.In, and GetLine
// eventually returns the accepted line once a carriage return lands.
func TestAttachmentDrivesEditLoopOverPty(t *testing.T) {
	dir := t.TempDir()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	a, err := Initialise(Desc{
		StateDir: dir,
		Quiet:    true,
		In:       tty,
		Out:      tty,
	})
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	defer a.Shutdown()

	type edited struct {
		line string
		ok   bool
	}
	done := make(chan edited, 1)
	go func() {
		line, ok := a.Kernel.Edit()
		done <- edited{line, ok}
	}()

	if _, err := ptmx.WriteString("hi\r"); err != nil {
		t.Fatalf("write to pty master: %v", err)
	}

	select {
	case got := <-done:
		if !got.ok {
			t.Fatalf("Edit() ok = false, want true")
		}
		if got.line != "hi" {
			t.Fatalf("Edit() line = %q, want %q", got.line, "hi")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("editor loop never finished after carriage return")
	}
}
