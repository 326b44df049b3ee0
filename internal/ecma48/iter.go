package ecma48

import "github.com/ehrlich-b/clinkgo/internal/strutil"

type phase int

const (
	phaseUnknown phase = iota
	phaseChar
	phaseEsc
	phaseEscST
	phaseCSIP
	phaseCSIF
	phaseCmdStr
	phaseCharStr
)

// State carries scanner state across Next calls so a sequence split across
// separate Write-sized chunks of input can be resumed correctly. The zero
// value is ready to use.
type State struct {
	phase  phase
	buffer [64]byte
	count  int

	// typ and codeByte classify the code in progress. They live on State
	// rather than a per-call local so classification set in one Next call
	// (e.g. entering a CSI from an ESC byte) survives into later calls that
	// resume the same sequence from a later chunk of input.
	typ      Type
	codeByte byte
}

// Reset returns the state to its initial, idle phase.
func (s *State) Reset() { *s = State{} }

func (s *State) resetToUnknown() {
	s.phase = phaseUnknown
	s.count = 0
	s.typ = TypeNone
	s.codeByte = 0
}

// Iter scans src one Code at a time, using and updating state so repeated
// Iters over successive chunks of a stream can resume a sequence split
// across chunk boundaries.
type Iter struct {
	src   []byte
	it    *strutil.Iter
	state *State
}

// NewIter returns an Iter over src that resumes from (and updates) state.
// Pass a fresh *State for the start of a stream.
func NewIter(src []byte, state *State) *Iter {
	return &Iter{src: src, it: strutil.NewIter(src), state: state}
}

// Next returns the next classified Code. A Code with Valid() == false means
// either the input is exhausted or a sequence is incomplete and scanning
// should resume with the state once more bytes are available.
func (it *Iter) Next() Code {
	codeStart := it.it.Pointer()
	copyPos := it.it.Pointer()

	done := true
	for {
		if !it.it.More() {
			if it.state.phase != phaseChar {
				return Code{}
			}
			break
		}
		c := it.it.Peek()

		switch it.state.phase {
		case phaseChar:
			done = it.nextChar(c)
		case phaseCharStr:
			done = it.nextCharStr(c)
		case phaseCmdStr:
			done = it.nextCmdStr(c)
		case phaseCSIF:
			done = it.nextCSIF(c)
		case phaseCSIP:
			done = it.nextCSIP(c)
		case phaseEsc:
			done = it.nextEsc(c)
		case phaseEscST:
			done = it.nextEscST(c)
		case phaseUnknown:
			done = it.nextUnknown(c)
		}

		if it.state.phase != phaseChar {
			for copyPos != it.it.Pointer() {
				if it.state.count < len(it.state.buffer)-1 {
					it.state.buffer[it.state.count] = it.src[copyPos]
					it.state.count++
				}
				copyPos++
			}
		}

		if done {
			break
		}
	}

	var code Code
	code.Type = it.state.typ
	code.Code = it.state.codeByte
	if it.state.phase != phaseChar {
		buf := make([]byte, it.state.count)
		copy(buf, it.state.buffer[:it.state.count])
		code.Bytes = buf
	} else {
		code.Bytes = it.src[codeStart:it.it.Pointer()]
	}

	it.state.Reset()
	return code
}

func (it *Iter) nextC1() bool {
	it.state.codeByte = (it.state.codeByte & 0x1f) | 0x40
	switch it.state.codeByte {
	case C1Dcs, C1Osc, C1Pm, C1Apc:
		it.state.phase = phaseCmdStr
		return false
	case C1Csi:
		it.state.phase = phaseCSIP
		return false
	case C1Sos:
		it.state.phase = phaseCharStr
		return false
	}
	return true
}

func (it *Iter) nextChar(c rune) bool {
	if inRange(c, 0x00, 0x1f) {
		it.state.typ = TypeChars
		return true
	}
	it.it.Next()
	return false
}

func (it *Iter) nextCharStr(c rune) bool {
	it.it.Next()
	if c == 0x1b {
		it.state.phase = phaseEscST
		return false
	}
	return c == 0x9c
}

func (it *Iter) nextCmdStr(c rune) bool {
	switch {
	case c == 0x1b:
		it.it.Next()
		it.state.phase = phaseEscST
		return false
	case c == 0x9c:
		it.it.Next()
		return true
	case inRange(c, 0x08, 0x0d) || inRange(c, 0x20, 0x7e):
		it.it.Next()
		return false
	}
	it.state.resetToUnknown()
	return false
}

func (it *Iter) nextCSIF(c rune) bool {
	switch {
	case inRange(c, 0x20, 0x2f):
		it.it.Next()
		return false
	case inRange(c, 0x40, 0x7e):
		it.it.Next()
		return true
	}
	it.state.resetToUnknown()
	return false
}

func (it *Iter) nextCSIP(c rune) bool {
	if inRange(c, 0x30, 0x3f) {
		it.it.Next()
		return false
	}
	it.state.phase = phaseCSIF
	return it.nextCSIF(c)
}

func (it *Iter) nextEsc(c rune) bool {
	it.it.Next()
	switch {
	case inRange(c, 0x40, 0x5f):
		it.state.typ = TypeC1
		it.state.codeByte = byte(c)
		return it.nextC1()
	case inRange(c, 0x60, 0x7f):
		it.state.typ = TypeICF
		it.state.codeByte = byte(c)
		return true
	}
	it.state.phase = phaseChar
	return false
}

func (it *Iter) nextEscST(c rune) bool {
	if c == 0x5c {
		it.it.Next()
		return true
	}
	it.state.resetToUnknown()
	return false
}

func (it *Iter) nextUnknown(c rune) bool {
	it.it.Next()
	switch {
	case c == 0x1b:
		it.state.phase = phaseEsc
		return false
	case inRange(c, 0x00, 0x1f):
		it.state.typ = TypeC0
		it.state.codeByte = byte(c)
		return true
	case inRange(c, 0x80, 0x9f):
		it.state.typ = TypeC1
		it.state.codeByte = byte(c)
		return it.nextC1()
	}
	it.state.typ = TypeChars
	it.state.phase = phaseChar
	return false
}
