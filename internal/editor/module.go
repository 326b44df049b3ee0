package editor

import (
	"github.com/ehrlich-b/clinkgo/internal/linebuf"
	"github.com/ehrlich-b/clinkgo/internal/match"
	"github.com/ehrlich-b/clinkgo/internal/screen"
)

// LineState is the read-only view of the current line a module or
// generator sees: the full text, cursor, where the command starts, and the
// tokenized word list (the last of which is always the "end word" the
// cursor sits in or just past).
type LineState struct {
	Line          string
	Cursor        int
	CommandOffset int
	Words         []Word
}

// EndWord returns the last (innermost/current) word.
func (l LineState) EndWord() Word {
	if len(l.Words) == 0 {
		return Word{}
	}
	return l.Words[len(l.Words)-1]
}

func (l LineState) toMatchLineState(endWord Word) match.LineState {
	return match.LineState{
		Line:       l.Line,
		Cursor:     l.Cursor,
		WordOffset: endWord.Offset,
		WordLength: endWord.Length,
	}
}

// Context is passed to every module callback: everything it's allowed to
// read or mutate about the current edit session.
type Context struct {
	Prompt  string
	Printer *screen.Printer
	Buffer  *linebuf.Buffer
	Line    LineState
	Matches *match.Matches
}

// Result collects the effects of one module's handling of one Input,
// mirroring EditorModule::Result's flag-setting methods.
type Result struct {
	match int
	group int
	flags uint8
}

const (
	resultPass uint8 = 1 << iota
	resultDone
	resultEOF
	resultRedraw
	resultAppendLCD
)

func newResult(group int) *Result {
	return &Result{match: -1, group: group}
}

// Pass declines to handle the input; the kernel tries the next binding.
func (r *Result) Pass() { r.flags |= resultPass }

// Done ends the edit session, optionally signalling end-of-file.
func (r *Result) Done(eof bool) {
	r.flags |= resultDone
	if eof {
		r.flags |= resultEOF
	}
}

// Redraw requests a forced full repaint.
func (r *Result) Redraw() { r.flags |= resultRedraw }

// AppendMatchLCD requests the current matches' longest common denominator
// be appended to the line.
func (r *Result) AppendMatchLCD() { r.flags |= resultAppendLCD }

// AcceptMatch requests insertion of the index-th current match.
func (r *Result) AcceptMatch(index int) { r.match = index }

// SetBindGroup switches the resolver's active bind group, returning the
// group that was active before the call.
func (r *Result) SetBindGroup(group int) int {
	prev := r.group
	r.group = group
	return prev
}

// KeyInput is the resolved chord handed to a module's OnInput.
type KeyInput struct {
	Keys string
	ID   uint8
}

// Binder is the narrow view of the kernel's key binder a module uses during
// BindInput: it can only bind itself, never another module.
type Binder interface {
	GetGroup(name string) int
	CreateGroup(name string) int
	Bind(group int, chord string, id uint8) bool
}

// Module is one participant in the editor's dispatch chain.
type Module interface {
	BindInput(b Binder)
	OnBeginLine(ctx Context)
	OnEndLine()
	OnMatchesChanged(ctx Context)
	OnInput(input KeyInput, result *Result, ctx Context)
	OnTerminalResize(columns, rows int, ctx Context)
}
