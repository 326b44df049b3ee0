// Package terminal connects the line editor to a real console: raw-mode
// input reading (with the small amount of escape-sequence disambiguation
// a client still owns even on an xterm-compatible terminal) and an ANSI
// output writer.
package terminal

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// EscapePolicy selects what a lone, unaccompanied Escape keypress becomes.
type EscapePolicy int

const (
	// EscapeRaw passes a lone Escape through unchanged.
	EscapeRaw EscapePolicy = iota
	// EscapeCtrlC turns it into Ctrl-C.
	EscapeCtrlC
	// EscapeRevertLine turns it into the "delete line" chord (CSI M).
	EscapeRevertLine
)

// Sentinel values Read returns in place of a real input byte.
const (
	InputNone           int32 = -1
	InputTimeout        int32 = -2
	InputAbort          int32 = -3
	InputTerminalResize int32 = -4
)

// escapeSettleDelay is how long Read waits after a lone ESC byte for a
// following byte that would make it the start of a CSI/SS3 sequence rather
// than a real Escape keypress, before applying EscapePolicy.
const escapeSettleDelay = 25 * time.Millisecond

// In reads raw bytes from a terminal-attached file.
type In struct {
	f            *os.File
	EscapePolicy EscapePolicy

	oldState *term.State
	bytesCh  chan byte
	errCh    chan error
	resizeCh chan os.Signal

	pending []int32
}

// NewIn returns an In reading from f (typically os.Stdin).
func NewIn(f *os.File) *In {
	return &In{f: f}
}

// Begin puts the terminal into raw mode (if f is console-attached) and
// starts the background reader.
func (in *In) Begin() error {
	if isatty.IsTerminal(in.f.Fd()) {
		st, err := term.MakeRaw(int(in.f.Fd()))
		if err != nil {
			return err
		}
		in.oldState = st
	}

	in.bytesCh = make(chan byte, 256)
	in.errCh = make(chan error, 1)
	in.resizeCh = make(chan os.Signal, 1)
	signal.Notify(in.resizeCh, syscall.SIGWINCH)

	go in.readLoop()
	return nil
}

// End restores the terminal's prior mode and stops watching for resizes.
func (in *In) End() {
	signal.Stop(in.resizeCh)
	if in.oldState != nil {
		term.Restore(int(in.f.Fd()), in.oldState)
		in.oldState = nil
	}
}

func (in *In) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := in.f.Read(buf)
		for i := 0; i < n; i++ {
			in.bytesCh <- buf[i]
		}
		if err != nil {
			in.errCh <- err
			return
		}
	}
}

// Select blocks until there is something for Read to return, or timeout
// elapses (if timeout > 0).
func (in *In) Select(timeout time.Duration) {
	if len(in.pending) > 0 {
		return
	}

	var timerCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerCh = timer.C
	}

	select {
	case b := <-in.bytesCh:
		in.decodeByte(b)
	case <-in.resizeCh:
		in.pending = append(in.pending, InputTerminalResize)
	case <-in.errCh:
		in.pending = append(in.pending, InputAbort)
	case <-timerCh:
		in.pending = append(in.pending, InputTimeout)
	}
}

// Read returns the next decoded input value, or InputNone if nothing is
// currently available (call Select first to block for it).
func (in *In) Read() int32 {
	if len(in.pending) == 0 {
		select {
		case b := <-in.bytesCh:
			in.decodeByte(b)
		case <-in.resizeCh:
			in.pending = append(in.pending, InputTerminalResize)
		case <-in.errCh:
			in.pending = append(in.pending, InputAbort)
		default:
			return InputNone
		}
	}
	v := in.pending[0]
	in.pending = in.pending[1:]
	return v
}

func (in *In) decodeByte(b byte) {
	if b != 0x1b {
		in.pending = append(in.pending, int32(b))
		return
	}

	select {
	case next := <-in.bytesCh:
		in.pending = append(in.pending, 0x1b, int32(next))
	case <-time.After(escapeSettleDelay):
		switch in.EscapePolicy {
		case EscapeCtrlC:
			in.pending = append(in.pending, 0x03)
		case EscapeRevertLine:
			in.pending = append(in.pending, 0x1b, int32('['), int32('M'))
		default:
			in.pending = append(in.pending, 0x1b)
		}
	}
}
