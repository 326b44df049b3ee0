// Package ecma48 implements a restartable ECMA-48/ANSI escape sequence
// scanner over a byte stream. It classifies runs of plain text and single
// control/escape sequences one Code at a time, and can resume mid-sequence
// when a caller hands it successive chunks of a larger stream.
package ecma48

import "github.com/ehrlich-b/clinkgo/internal/strutil"

// Type classifies a Code.
type Type uint8

const (
	TypeNone Type = iota
	TypeChars
	TypeC0
	TypeC1
	TypeICF
)

// C0 control codes, named for readability at call sites.
const (
	C0Nul byte = iota
	C0Soh
	C0Stx
	C0Etx
	C0Eot
	C0Enq
	C0Ack
	C0Bel
	C0Bs
	C0Ht
	C0Lf
	C0Vt
	C0Ff
	C0Cr
	C0So
	C0Si
	C0Dle
	C0Dc1
	C0Dc2
	C0Dc3
	C0Dc4
	C0Nak
	C0Syn
	C0Etb
	C0Can
	C0Em
	C0Sub
	C0Esc
	C0Fs
	C0Gs
	C0Rs
	C0Us
)

// C1 control codes, in their 7-bit (post ESC) form.
const (
	C1Dcs byte = 0x50
	C1Sos byte = 0x58
	C1Csi byte = 0x5b
	C1Pm  byte = 0x5e
	C1Osc byte = 0x5d
	C1Apc byte = 0x5f
)

// Code is one classified run returned by Iter.Next: either a run of plain
// text (TypeChars), a single C0 byte, or a full C1/ICF escape sequence.
type Code struct {
	Bytes []byte
	Type  Type
	Code  byte
}

// Valid reports whether Next produced a complete code, as opposed to running
// out of input mid-sequence.
func (c Code) Valid() bool { return len(c.Bytes) > 0 }

func inRange(v, lo, hi rune) bool { return v >= lo && v <= hi }

// CellCount sums the display width of every TypeChars run in s, skipping
// control and escape sequences.
func CellCount(s []byte) int {
	var state State
	it := NewIter(s, &state)
	total := 0
	for {
		code := it.Next()
		if !code.Valid() {
			break
		}
		if code.Type != TypeChars {
			continue
		}
		total += strutil.CellCountBytes(code.Bytes)
	}
	return total
}
