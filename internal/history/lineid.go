package history

// LineID identifies one history line: which bank it lives in and its byte
// offset within that bank's file, packed the way line_id_impl packs it in
// history_db.cpp — offset in the low 29 bits, bank index in the next 2, and
// an "active" bit on top that a zero LineID (the not-found value) always
// lacks.
type LineID uint32

const (
	lineIDOffsetBits = 29
	lineIDOffsetMask = 1<<lineIDOffsetBits - 1
	lineIDBankBits   = 2
	lineIDBankShift  = lineIDOffsetBits
	lineIDBankMask   = 1<<lineIDBankBits - 1
	lineIDActiveBit  = 1 << (lineIDOffsetBits + lineIDBankBits)
)

func newLineID(bankIndex int, offset uint32) LineID {
	return LineID(lineIDActiveBit | uint32(bankIndex&lineIDBankMask)<<lineIDBankShift | offset&lineIDOffsetMask)
}

// Offset returns the byte offset of the line's record within its bank file.
func (id LineID) Offset() uint32 { return uint32(id) & lineIDOffsetMask }

// BankIndex returns which bank (masterBank or sessionBank) the line lives in.
func (id LineID) BankIndex() int { return int(uint32(id)>>lineIDBankShift) & lineIDBankMask }

// Active reports whether id names a real line, as opposed to the zero value
// returned by lookups that found nothing.
func (id LineID) Active() bool { return uint32(id)&lineIDActiveBit != 0 }
