package ecma48

import "github.com/ehrlich-b/clinkgo/internal/strutil"

// CSI is a decoded Control Sequence Introducer: CSI P...P I...I F, where P
// are parameter bytes, I intermediate bytes, and F the final byte.
type CSI struct {
	Final        byte
	Intermediate byte
	PrivateUse   bool
	Params       []int32
}

// GetParam returns the parameter at index, or fallback if index is out of
// range.
func (c CSI) GetParam(index int, fallback int32) int32 {
	if index >= 0 && index < len(c.Params) {
		return c.Params[index]
	}
	return fallback
}

// DecodeCSI parses the parameter/intermediate/final bytes of a CSI code.
// It returns ok == false if c is not a CSI code at all.
func (c Code) DecodeCSI() (CSI, bool) {
	if c.Type != TypeC1 || c.Code != C1Csi {
		return CSI{}, false
	}

	it := strutil.NewIter(c.Bytes)

	// Skip the ESC [ (or bare 0x9b) announcer.
	if it.Next() == 0x1b {
		it.Next()
	}

	var csi CSI
	if r := it.Peek(); inRange(r, 0x3c, 0x3f) {
		csi.PrivateUse = true
		it.Next()
	}

	var param int32
	trailingParam := false
	for it.More() {
		r := it.Next()
		switch {
		case inRange(r, 0x30, 0x3b):
			trailingParam = true
			if r == 0x3b {
				csi.Params = append(csi.Params, param)
				param = 0
			} else if r != 0x3a {
				param = param*10 + (r - 0x30)
			}
		case inRange(r, 0x20, 0x2f):
			csi.Intermediate = byte(r)
		case !inRange(r, 0x3c, 0x3f):
			csi.Final = byte(r)
		}
	}
	if trailingParam {
		csi.Params = append(csi.Params, param)
	}

	return csi, true
}

// GetC1Str extracts the inner text of a non-CSI C1 string code (DCS, OSC,
// PM, APC, SOS), stopping at the terminator (ST or a bare ESC).
func (c Code) GetC1Str() ([]byte, bool) {
	if c.Type != TypeC1 || c.Code == C1Csi {
		return nil, false
	}

	it := strutil.NewIter(c.Bytes)
	if it.Next() == 0x1b {
		it.Next()
	}

	start := it.Pointer()
	for it.More() {
		r := it.Peek()
		if r == 0x9c || r == 0x1b {
			break
		}
		it.Next()
	}

	return c.Bytes[start:it.Pointer()], true
}
