package terminal

// Modifier is a bitmask of the modifier keys held during a keypress, in the
// same bit order xterm's modifyOtherKeys parameter encodes: the CSI
// parameter value is modifier+1.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// csiByMod is a cursor/navigation key's CSI final byte paired with the
// sequence used for each of the 8 possible modifier combinations (index =
// Modifier bitmask, 0 = unmodified). Plain arrow keys send the two-byte
// "\x1bO" SS3 form when unmodified and the full "\x1b[1;Nx" CSI form once
// any modifier is held, exactly as an xterm does; this table only needs to
// hold the already-expanded byte sequences clink's default key bindings use.
type csiByMod [8]string

func buildCursorTable(final byte) csiByMod {
	var t csiByMod
	t[0] = "\x1bO" + string(final)
	for mod := 1; mod < 8; mod++ {
		t[mod] = "\x1b[1;" + string(rune('1'+mod)) + string(final)
	}
	return t
}

// Cursor and navigation key tables, grounded on win_terminal_in.cpp's
// terminfo::kcuu1/kcud1/kcub1/kcuf1/kich1/kdch1/khome/kend/kpp/knp tables.
var (
	KeyUp    = buildCursorTable('A')
	KeyDown  = buildCursorTable('B')
	KeyLeft  = buildCursorTable('D')
	KeyRight = buildCursorTable('C')
	KeyHome  = buildCursorTable('H')
	KeyEnd   = buildCursorTable('F')

	// Insert, Delete, PageUp, PageDown are "CSI n ~" forms; n identifies the
	// key and the modifier becomes a second CSI parameter once one is held.
	KeyInsert  = buildTildeTable(2)
	KeyDelete  = buildTildeTable(3)
	KeyPageUp  = buildTildeTable(5)
	KeyPageDn  = buildTildeTable(6)
)

func buildTildeTable(n int) csiByMod {
	var t csiByMod
	digits := itoaSmall(n)
	t[0] = "\x1b[" + digits + "~"
	for mod := 1; mod < 8; mod++ {
		t[mod] = "\x1b[" + digits + ";" + string(rune('1'+mod)) + "~"
	}
	return t
}

func itoaSmall(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// KeyBackTab is shift-tab, grounded on terminfo::kcbt.
const KeyBackTab = "\x1b[Z"

// KeyDeleteLine is the "delete line" chord a revert-line escape policy
// synthesizes, grounded on terminfo::kdl1.
const KeyDeleteLine = "\x1b[M"

// fKeySeq returns the CSI/SS3 sequence for function key n (1-12) under the
// given modifier, grounded on win_terminal_in.cpp's 48-entry terminfo::kfx
// table (12 keys x 4 modifier groups: none/shift/ctrl/ctrl-shift).
func fKeySeq(n int, mod Modifier) string {
	if n < 1 || n > 12 {
		return ""
	}
	// F1-F4 use the classic SS3 form unmodified; F5-F12 and all modified
	// function keys use "CSI code ~".
	codes := [12]int{11, 12, 13, 14, 15, 17, 18, 19, 20, 21, 23, 24}
	code := codes[n-1]

	if mod == 0 && n <= 4 {
		return "\x1bO" + string(rune('P'+n-1))
	}

	suffix := ""
	switch {
	case mod&ModShift != 0 && mod&ModCtrl != 0:
		suffix = ";6"
	case mod&ModCtrl != 0:
		suffix = ";5"
	case mod&ModShift != 0:
		suffix = ";2"
	}
	return "\x1b[" + itoaSmall(code) + suffix + "~"
}

// FKey returns the escape sequence default keybinding setup should bind for
// function key n (1-12) under modifier mod.
func FKey(n int, mod Modifier) string { return fKeySeq(n, mod) }
