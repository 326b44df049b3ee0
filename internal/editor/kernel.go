// Package editor implements the line-editor kernel: the cooperative state
// machine that multiplexes input through a key-binding resolver, dispatches
// to ordered modules, and keeps the line buffer and match pipeline in sync.
package editor

import (
	"time"

	"github.com/ehrlich-b/clinkgo/internal/bind"
	"github.com/ehrlich-b/clinkgo/internal/linebuf"
	"github.com/ehrlich-b/clinkgo/internal/match"
	"github.com/ehrlich-b/clinkgo/internal/screen"
	"github.com/ehrlich-b/clinkgo/internal/terminal"
)

// Input is the subset of terminal.In the kernel needs.
type Input interface {
	Begin() error
	End()
	Select(timeout time.Duration)
	Read() int32
}

// Output is the subset of terminal.Out the kernel needs.
type Output interface {
	Begin()
	End()
	GetColumns() int
	GetRows() int
}

// Desc configures a Kernel for one embedding shell.
type Desc struct {
	ShellName     string
	Prompt        string
	CommandDelims string
	WordDelims    string
	QuotePair     string
	CompareMode   match.CompareMode
}

const (
	flagInit uint8 = 1 << iota
	flagEditing
	flagDone
	flagEOF
)

const (
	wordOffsetBits = 11
	wordLengthBits = 10
	keyLowMask     = uint32(1)<<(wordOffsetBits+wordLengthBits) - 1
)

func packKey(offset, length, cursor int) uint32 {
	return uint32(offset&0x7FF) | uint32(length&0x3FF)<<wordOffsetBits | uint32(cursor&0x7FF)<<(wordOffsetBits+wordLengthBits)
}

// Kernel owns an ordered list of modules, an ordered list of match
// generators, a binder+resolver pair, a line buffer, a match pipeline, and
// a printer — and runs the cooperative edit loop over them.
type Kernel struct {
	desc       Desc
	input      Input
	output     Output
	printer    *screen.Printer
	buffer     *linebuf.Buffer
	binder     *bind.Binder
	resolver   *bind.Resolver
	modules    []Module
	generators []match.Generator
	matches    *match.Matches
	pipeline   *match.Pipeline
	words      []Word

	commandOffset int
	prevKey       uint32
	flags         uint8
}

// New returns a Kernel ready to have modules and generators added.
func New(desc Desc, in Input, out Output, printer *screen.Printer) *Kernel {
	b := bind.NewBinder()
	m := match.NewMatches(0)
	return &Kernel{
		desc:     desc,
		input:    in,
		output:   out,
		printer:  printer,
		buffer:   linebuf.New(),
		binder:   b,
		resolver: bind.NewResolver(b),
		matches:  m,
		pipeline: match.NewPipeline(m),
	}
}

// AddModule registers an editor module. Modules are dispatched in
// registration order for OnInput and reverse order for OnEndLine.
func (k *Kernel) AddModule(m Module) { k.modules = append(k.modules, m) }

// AddGenerator registers a match generator, tried in registration order.
func (k *Kernel) AddGenerator(g match.Generator) { k.generators = append(k.generators, g) }

type moduleBinder struct {
	binder *bind.Binder
	module bind.ModuleHandle
}

func (mb moduleBinder) GetGroup(name string) int {
	idx, _ := mb.binder.GetGroup(name)
	return idx
}

func (mb moduleBinder) CreateGroup(name string) int {
	idx, _ := mb.binder.CreateGroup(name)
	return idx
}

func (mb moduleBinder) Bind(group int, chord string, id uint8) bool {
	return mb.binder.Bind(group, chord, mb.module, id) == nil
}

func (k *Kernel) initialise() {
	if k.flags&flagInit != 0 {
		return
	}
	for _, m := range k.modules {
		m.BindInput(moduleBinder{binder: k.binder, module: m})
	}
	k.flags |= flagInit
}

func (k *Kernel) beginLine() {
	k.flags &= flagInit
	k.flags |= flagEditing

	k.resolver.Reset()
	k.commandOffset = 0
	k.prevKey = ^uint32(0)

	k.pipeline.Reset()

	k.input.Begin()
	k.output.Begin()
	k.buffer.BeginLine()

	ctx := k.context()
	for _, m := range k.modules {
		m.OnBeginLine(ctx)
	}

	k.render()
}

func (k *Kernel) endLine() {
	for i := len(k.modules) - 1; i >= 0; i-- {
		k.modules[i].OnEndLine()
	}

	k.buffer.EndLine()
	k.output.End()
	k.input.End()

	k.flags &^= flagEditing
}

// GetLine returns the buffer's current text, ending the session if it's
// still active. Returns false once EOF has been signalled.
func (k *Kernel) GetLine() (string, bool) {
	if k.flags&flagEditing != 0 {
		k.endLine()
	}
	if k.flags&flagEOF != 0 {
		return "", false
	}
	return k.buffer.Text(), true
}

// Edit drives Update/Select until the session ends, then returns the final
// line text.
func (k *Kernel) Edit() (string, bool) {
	for k.Update() {
		k.input.Select(0)
	}
	return k.GetLine()
}

// Update advances the kernel by one step: initialising, beginning a new
// line, or processing one input event. Returns true while the session is
// still active.
func (k *Kernel) Update() bool {
	if k.flags&flagInit == 0 {
		k.initialise()
	}

	if k.flags&flagEditing == 0 {
		k.beginLine()
		k.updateInternal()
		return true
	}

	k.updateInput()

	if k.flags&flagEditing == 0 {
		return false
	}

	k.updateInternal()
	return true
}

func (k *Kernel) updateInput() {
	key := k.input.Read()

	if key == terminal.InputTerminalResize {
		if r, ok := k.output.(interface{ Resize() }); ok {
			r.Resize()
		}
		cols, rows := k.output.GetColumns(), k.output.GetRows()
		ctx := k.context()
		for _, m := range k.modules {
			m.OnTerminalResize(cols, rows, ctx)
		}
		k.buffer.Redraw()
		k.render()
	}

	if key == terminal.InputAbort {
		k.buffer.Reset()
		k.endLine()
		return
	}

	if key < 0 {
		return
	}

	if !k.resolver.Step(byte(key)) {
		return
	}

	for {
		binding := k.resolver.Next()
		if !binding.Valid() {
			break
		}

		result := newResult(k.resolver.GetGroup())
		chord := string(binding.Chord())
		module, _ := binding.Module().(Module)
		id := binding.ID()

		ctx := k.context()
		module.OnInput(KeyInput{Keys: chord, ID: id}, result, ctx)

		k.resolver.SetGroup(result.group)

		if result.flags&resultPass != 0 {
			continue
		}

		binding.Claim()

		if result.flags&resultDone != 0 {
			k.endLine()
			if result.flags&resultEOF != 0 {
				k.flags |= flagEOF
			}
		}

		if k.flags&flagEditing == 0 {
			return
		}

		if result.flags&resultRedraw != 0 {
			k.buffer.Redraw()
		}

		if result.match >= 0 {
			k.acceptMatch(result.match)
		} else if result.flags&resultAppendLCD != 0 {
			k.appendMatchLCD()
		}
	}

	if k.buffer.Draw() {
		k.render()
	}
}

func (k *Kernel) updateInternal() {
	k.collectWords()
	endWord := k.words[len(k.words)-1]

	nextKeyNoCursor := packKey(endWord.Offset, endWord.Length, 0)
	prevKeyNoCursor := k.prevKey & keyLowMask
	if nextKeyNoCursor != prevKeyNoCursor {
		line := k.lineState()
		k.pipeline.Reset()
		k.pipeline.Generate(line.toMatchLineState(endWord), k.generators)
		k.pipeline.FillInfo()
	}

	cursor := k.buffer.Cursor()
	nextKey := packKey(endWord.Offset, endWord.Length, cursor)
	if nextKey != k.prevKey {
		needleStart := endWord.Offset
		if !k.matches.PrefixIncluded() {
			needleStart += endWord.Length
		}

		text := k.buffer.Text()
		if needleStart > cursor {
			needleStart = cursor
		}
		needle := text[needleStart:cursor]

		if needle != "" && endWord.Quoted {
			if closing := k.closingQuote(); closing != 0 && needle[len(needle)-1] == closing {
				needle = needle[:len(needle)-1]
			}
		}

		k.pipeline.Select(needle, k.desc.CompareMode)
		k.pipeline.Sort()

		k.prevKey = nextKey

		ctx := k.context()
		for _, m := range k.modules {
			m.OnMatchesChanged(ctx)
		}
	}
}

func (k *Kernel) closingQuote() byte {
	if k.desc.QuotePair == "" {
		return 0
	}
	if len(k.desc.QuotePair) > 1 {
		return k.desc.QuotePair[1]
	}
	return k.desc.QuotePair[0]
}

func (k *Kernel) openQuote() byte {
	if k.desc.QuotePair == "" {
		return 0
	}
	return k.desc.QuotePair[0]
}

func (k *Kernel) findCommandBounds() (start, length int) {
	buf := k.buffer.Text()
	cursor := k.buffer.Cursor()
	if cursor > len(buf) {
		cursor = len(buf)
	}

	if k.desc.CommandDelims == "" {
		return 0, cursor
	}

	tz := newTokenizer(buf[:cursor], k.desc.CommandDelims)
	tz.addQuotePair(k.desc.QuotePair)

	var tokStart, tokEnd int
	for {
		tok := tz.next()
		if !tok.valid {
			break
		}
		tokStart, tokEnd = tok.start, tok.start+tok.length
	}

	if tokEnd != cursor {
		return cursor, 0
	}
	return tokStart, tokEnd - tokStart
}

func (k *Kernel) collectWords() {
	k.words = k.words[:0]

	buf := k.buffer.Text()
	cursor := k.buffer.Cursor()
	if cursor > len(buf) {
		cursor = len(buf)
	}

	commandStart, commandLength := k.findCommandBounds()
	k.commandOffset = commandStart

	tz := newTokenizer(buf[commandStart:commandStart+commandLength], k.desc.WordDelims)
	tz.addQuotePair(k.desc.QuotePair)

	for {
		tok := tz.next()
		if !tok.valid {
			break
		}
		k.words = append(k.words, Word{
			Offset: commandStart + tok.start,
			Length: tok.length,
			Delim:  tok.delim,
		})
	}

	if len(k.words) == 0 || k.words[len(k.words)-1].End() < cursor {
		var delim byte
		if cursor > 0 {
			delim = buf[cursor-1]
		}
		k.words = append(k.words, Word{Offset: cursor, Delim: delim})
	}

	openQ := k.openQuote()
	closeQ := k.closingQuote()
	for i := range k.words {
		w := &k.words[i]
		if w.Length == 0 {
			continue
		}

		start := buf[w.Offset]
		startQuoted := openQ != 0 && start == openQ
		endQuoted := false
		if w.Length > 1 {
			endQuoted = closeQ != 0 && buf[w.Offset+w.Length-1] == closeQ
		}

		if startQuoted {
			w.Offset++
		}
		w.Length -= boolToInt(startQuoted) + boolToInt(endQuoted)
		w.Quoted = startQuoted
	}

	endWord := &k.words[len(k.words)-1]
	line := k.lineState()
	prefixLength := 0
	for _, g := range k.generators {
		if n := g.GetPrefixLength(line.toMatchLineState(*endWord)); n > prefixLength {
			prefixLength = n
		}
	}
	if prefixLength < endWord.Length {
		endWord.Length = prefixLength
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (k *Kernel) lineState() LineState {
	return LineState{
		Line:          k.buffer.Text(),
		Cursor:        k.buffer.Cursor(),
		CommandOffset: k.commandOffset,
		Words:         k.words,
	}
}

func (k *Kernel) context() Context {
	return Context{
		Prompt:  k.desc.Prompt,
		Printer: k.printer,
		Buffer:  k.buffer,
		Line:    k.lineState(),
		Matches: k.matches,
	}
}
