package hostattach

import "github.com/ehrlich-b/clinkgo/internal/editor"

// classicInputIDs names the binding ids classicModule registers, mirroring
// the role the script host's classic input module plays when no richer
// key map has been loaded: printable self-insert, backspace, and Enter to
// accept the line. A real embedding shell with a script host attached adds
// its own modules ahead of or behind this one via Attachment.Kernel; this
// one only exists so an Attachment is immediately usable without one.
const (
	classicSelfInsert uint8 = iota + 1
	classicBackspace
	classicAcceptLine
)

// classicModule is the minimal editor.Module every Attachment ships with:
// it does not replace a real key-binding set (script-driven or otherwise)
// but guarantees basic line entry works out of the box.
type classicModule struct{}

func (classicModule) BindInput(b editor.Binder) {
	for c := byte(0x20); c < 0x7f; c++ {
		b.Bind(0, string(c), classicSelfInsert)
	}
	b.Bind(0, "\r", classicAcceptLine)
	b.Bind(0, "\x7f", classicBackspace)
}

func (classicModule) OnBeginLine(editor.Context)      {}
func (classicModule) OnEndLine()                      {}
func (classicModule) OnMatchesChanged(editor.Context) {}
func (classicModule) OnTerminalResize(cols, rows int, ctx editor.Context) {}

func (classicModule) OnInput(input editor.KeyInput, result *editor.Result, ctx editor.Context) {
	switch input.ID {
	case classicSelfInsert:
		ctx.Buffer.Insert(input.Keys)
	case classicBackspace:
		cursor := ctx.Buffer.Cursor()
		if cursor > 0 {
			ctx.Buffer.Remove(cursor-1, cursor)
		}
	case classicAcceptLine:
		result.Done(false)
	default:
		result.Pass()
	}
}
