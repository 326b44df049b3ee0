package terminal

import (
	"bufio"
	"os"

	"github.com/ehrlich-b/clinkgo/internal/screen"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Out writes ANSI text to a console-attached file, while replaying the same
// text through an in-memory screen.Printer so the editor kernel always has
// a model of what the terminal currently shows, independent of whatever the
// real terminal's own state is.
type Out struct {
	f       *os.File
	w       *bufio.Writer
	isTerm  bool
	buf     *screen.ConsoleBuffer
	printer *screen.Printer
}

// NewOut returns an Out writing to f (typically os.Stdout).
func NewOut(f *os.File) *Out {
	o := &Out{
		f:      f,
		w:      bufio.NewWriter(f),
		isTerm: isatty.IsTerminal(f.Fd()),
	}
	cols, rows := o.querySize()
	o.buf = screen.NewConsoleBuffer(cols, rows)
	o.printer = screen.NewPrinter(o.buf)
	return o
}

func (o *Out) querySize() (cols, rows int) {
	if o.isTerm {
		if c, r, err := term.GetSize(int(o.f.Fd())); err == nil {
			return c, r
		}
	}
	return 80, 25
}

// Begin is a no-op placeholder kept symmetric with In.Begin; output needs no
// mode change of its own (In.Begin already puts the shared fd into raw
// mode when stdin and stdout are the same terminal).
func (o *Out) Begin() {}

// End flushes any buffered output.
func (o *Out) End() { o.w.Flush() }

// Write sends s to the terminal and applies it to the shadow screen model.
func (o *Out) Write(s string) {
	o.w.WriteString(s)
	o.printer.Write(s)
}

// Flush forces buffered output to the underlying file.
func (o *Out) Flush() error { return o.w.Flush() }

// GetColumns returns the terminal's current column count.
func (o *Out) GetColumns() int {
	cols, _ := o.buf.Size()
	return cols
}

// GetRows returns the terminal's current row count.
func (o *Out) GetRows() int {
	_, rows := o.buf.Size()
	return rows
}

// Resize updates the shadow screen model's dimensions, called in response
// to an InputTerminalResize from In.
func (o *Out) Resize() {
	cols, rows := o.querySize()
	o.buf.Resize(cols, rows)
}

// Shadow returns the in-memory model of what the terminal currently shows,
// for diff-based redraw logic upstream.
func (o *Out) Shadow() screen.Buffer { return o.buf }
