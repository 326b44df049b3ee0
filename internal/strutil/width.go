package strutil

import "github.com/mattn/go-runewidth"

// CellWidth returns the number of terminal cells a rune occupies: 0 for
// combining marks and most control codes, 1 for ordinary characters, 2 for
// wide East-Asian characters.
func CellWidth(r rune) int {
	if r < 0x20 || r == 0x7f {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// CellCountString sums CellWidth over every rune in s, the same metric
// clink's ecma48_iter::cell_count applies to a run of "chars" codes.
func CellCountString(s string) int {
	n := 0
	for _, r := range s {
		n += CellWidth(r)
	}
	return n
}

// CellCountBytes is the []byte equivalent of CellCountString.
func CellCountBytes(s []byte) int {
	n := 0
	it := NewIter(s)
	for it.More() {
		n += CellWidth(it.Next())
	}
	return n
}
