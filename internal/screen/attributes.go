// Package screen abstracts a rectangular character-cell grid: cursor
// position, clearing, scrolling, and a small colour/attribute model, plus
// one console-backed implementation of that abstraction.
package screen

// ColorKind selects how a Color's value should be interpreted.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorPalette
	ColorRGB
)

// Color is either the terminal's default colour, a 4-bit palette index, or
// an RGB triple.
type Color struct {
	Kind    ColorKind
	Palette uint8
	R, G, B uint8
}

// DefaultColor is the "use whatever the terminal considers default" colour.
var DefaultColor = Color{Kind: ColorDefault}

// PaletteColor builds a 4-bit palette colour (0-15).
func PaletteColor(index uint8) Color {
	return Color{Kind: ColorPalette, Palette: index & 0xf}
}

// RGBColor builds a true-colour value.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// field bits for Attributes.setMask, tracking which fields an Attributes
// value explicitly carries an opinion about (as opposed to "unset, inherit
// from whatever this merges against").
const (
	setFg uint8 = 1 << iota
	setBg
	setBold
	setUnderline
)

// Attributes packs foreground/background colour, bold, and underline state
// together with a mask of which fields are explicitly set. Two Attributes
// combine with Merge (the right-hand side overrides only where it is set)
// or compare with Diff (which fields actually differ).
type Attributes struct {
	Fg, Bg          Color
	Bold, Underline bool
	setMask         uint8
}

// WithFg returns a copy of a with the foreground colour set to c.
func (a Attributes) WithFg(c Color) Attributes {
	a.Fg = c
	a.setMask |= setFg
	return a
}

// WithBg returns a copy of a with the background colour set to c.
func (a Attributes) WithBg(c Color) Attributes {
	a.Bg = c
	a.setMask |= setBg
	return a
}

// WithBold returns a copy of a with the bold flag set to b.
func (a Attributes) WithBold(b bool) Attributes {
	a.Bold = b
	a.setMask |= setBold
	return a
}

// WithUnderline returns a copy of a with the underline flag set to b.
func (a Attributes) WithUnderline(b bool) Attributes {
	a.Underline = b
	a.setMask |= setUnderline
	return a
}

// FgSet reports whether the foreground field is explicitly set.
func (a Attributes) FgSet() bool { return a.setMask&setFg != 0 }

// BgSet reports whether the background field is explicitly set.
func (a Attributes) BgSet() bool { return a.setMask&setBg != 0 }

// BoldSet reports whether the bold field is explicitly set.
func (a Attributes) BoldSet() bool { return a.setMask&setBold != 0 }

// UnderlineSet reports whether the underline field is explicitly set.
func (a Attributes) UnderlineSet() bool { return a.setMask&setUnderline != 0 }

// Merge returns a with every field rhs explicitly sets overridden by rhs;
// fields rhs leaves unset keep a's value.
func (a Attributes) Merge(rhs Attributes) Attributes {
	out := a
	if rhs.FgSet() {
		out.Fg = rhs.Fg
		out.setMask |= setFg
	}
	if rhs.BgSet() {
		out.Bg = rhs.Bg
		out.setMask |= setBg
	}
	if rhs.BoldSet() {
		out.Bold = rhs.Bold
		out.setMask |= setBold
	}
	if rhs.UnderlineSet() {
		out.Underline = rhs.Underline
		out.setMask |= setUnderline
	}
	return out
}

// Diff returns an Attributes whose set fields are exactly those where a and
// rhs disagree, carrying rhs's value for each — the set a writer needs to
// emit to move the terminal from a's attribute state to rhs's.
func (a Attributes) Diff(rhs Attributes) Attributes {
	var out Attributes
	if a.Fg != rhs.Fg {
		out.Fg = rhs.Fg
		out.setMask |= setFg
	}
	if a.Bg != rhs.Bg {
		out.Bg = rhs.Bg
		out.setMask |= setBg
	}
	if a.Bold != rhs.Bold {
		out.Bold = rhs.Bold
		out.setMask |= setBold
	}
	if a.Underline != rhs.Underline {
		out.Underline = rhs.Underline
		out.setMask |= setUnderline
	}
	return out
}

// IsZeroDiff reports whether a Diff result carries no differences at all.
func (a Attributes) IsZeroDiff() bool { return a.setMask == 0 }
