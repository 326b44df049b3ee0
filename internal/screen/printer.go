package screen

import "github.com/ehrlich-b/clinkgo/internal/ecma48"

// Printer decodes ECMA-48 text (plain characters plus CSI/C0 control codes)
// and applies it to a Buffer: the "what does the screen now look like"
// half of terminal output, kept separate from actually painting a real
// console so it can run headless in tests or back an in-memory model of
// what a real terminal currently displays.
type Printer struct {
	buf   Buffer
	state ecma48.State
}

// NewPrinter returns a Printer that applies decoded text to buf.
func NewPrinter(buf Buffer) *Printer {
	return &Printer{buf: buf}
}

// Write decodes s and applies every code it contains to the buffer.
func (p *Printer) Write(s string) {
	it := ecma48.NewIter([]byte(s), &p.state)
	for {
		code := it.Next()
		if !code.Valid() {
			return
		}
		switch code.Type {
		case ecma48.TypeChars:
			p.buf.Write(string(code.Bytes))
		case ecma48.TypeC0:
			p.writeC0(code.Code)
		case ecma48.TypeC1:
			p.writeC1(code)
		}
	}
}

func (p *Printer) writeC0(c byte) {
	switch c {
	case ecma48.C0Bs:
		col, row := p.buf.Cursor()
		if col > 0 {
			p.buf.SetCursor(col-1, row)
		}
	case ecma48.C0Cr:
		_, row := p.buf.Cursor()
		p.buf.SetCursor(0, row)
	case ecma48.C0Ht, ecma48.C0Lf:
		p.buf.Write(string(rune(c)))
	}
}

func (p *Printer) writeC1(code ecma48.Code) {
	if code.Code != ecma48.C1Csi {
		return
	}
	csi, ok := code.DecodeCSI()
	if !ok {
		return
	}
	if csi.PrivateUse {
		// DECSET/DECRST (cursor visibility, reverse video): no in-memory
		// screen-model effect, left to the real terminal to render.
		return
	}
	switch csi.Final {
	case '@':
		p.buf.InsertChars(int(csi.GetParam(0, 1)))
	case 'H':
		row := csi.GetParam(0, 1)
		col := csi.GetParam(1, 1)
		p.buf.SetCursor(int(col)-1, int(row)-1)
	case 'J':
		switch csi.GetParam(0, 0) {
		case 0:
			p.buf.Clear(ClearToEnd)
		case 1:
			p.buf.Clear(ClearToStart)
		case 2:
			p.buf.Clear(ClearAll)
		}
	case 'K':
		switch csi.GetParam(0, 0) {
		case 0:
			p.buf.Clear(ClearLineToEnd)
		case 1:
			p.buf.Clear(ClearLineToStart)
		case 2:
			p.buf.Clear(ClearLine)
		}
	case 'P':
		p.buf.DeleteChars(int(csi.GetParam(0, 1)))
	case 'm':
		p.setAttributes(csi)
	case 'A':
		col, row := p.buf.Cursor()
		p.buf.SetCursor(col, row-int(csi.GetParam(0, 1)))
	case 'B':
		col, row := p.buf.Cursor()
		p.buf.SetCursor(col, row+int(csi.GetParam(0, 1)))
	case 'C':
		col, row := p.buf.Cursor()
		p.buf.SetCursor(col+int(csi.GetParam(0, 1)), row)
	case 'D':
		col, row := p.buf.Cursor()
		p.buf.SetCursor(col-int(csi.GetParam(0, 1)), row)
	}
}

func (p *Printer) setAttributes(csi ecma48.CSI) {
	if len(csi.Params) == 0 {
		p.buf.SetAttributes(Attributes{})
		return
	}

	var attr Attributes
	for _, raw := range csi.Params {
		param := int(raw)
		switch {
		case param == 0:
			attr = Attributes{}
		case param == 39:
			attr.setMask &^= setFg
		case param == 49:
			attr.setMask &^= setBg
		case param == 1 || param == 2 || param == 22:
			attr = attr.WithBold(param == 1)
		case param == 4 || param == 24:
			attr = attr.WithUnderline(param == 4)
		case param-30 >= 0 && param-30 < 8:
			attr = attr.WithFg(PaletteColor(uint8(param - 30)))
		case param-90 >= 0 && param-90 < 8:
			attr = attr.WithFg(PaletteColor(uint8(param - 90 + 8)))
		case param-40 >= 0 && param-40 < 8:
			attr = attr.WithBg(PaletteColor(uint8(param - 40)))
		case param-100 >= 0 && param-100 < 8:
			attr = attr.WithBg(PaletteColor(uint8(param - 100 + 8)))
		}
	}
	p.buf.SetAttributes(attr)
}
