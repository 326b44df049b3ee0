package editor

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ehrlich-b/clinkgo/internal/strutil"
)

// Writer is the subset of terminal.Out a Kernel needs to actually paint a
// line, split out from Output so headless embedders (tests, hostattach's
// shadow-only paths) can still satisfy Output without a real writer.
type Writer interface {
	Write(s string)
}

// render repaints the prompt and current buffer contents on one terminal
// row: clear the row, write prompt+text, then reposition the cursor to its
// logical column. It is a no-op if the Kernel's output does not implement
// Writer (e.g. a Kernel built only for testing the state machine, not the
// paint path).
func (k *Kernel) render() {
	w, ok := k.output.(Writer)
	if !ok {
		return
	}

	text := k.buffer.Text()
	cursor := k.buffer.Cursor()
	if cursor > len(text) {
		cursor = len(text)
	}

	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(ansi.EraseEntireLine)
	b.WriteString(k.desc.Prompt)
	b.WriteString(text)

	col := strutil.CellCountString(k.desc.Prompt) + strutil.CellCountString(text[:cursor]) + 1
	b.WriteString(ansi.CursorHorizontalAbsolute(col))

	w.Write(b.String())
}
