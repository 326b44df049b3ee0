// Package strutil provides forward iteration over UTF-8 and UTF-16 text and
// a shared display-width function. Every other package that walks bytes one
// code point at a time builds on top of this one.
package strutil

import "unicode/utf8"

// Iter walks a byte slice one UTF-8 code point at a time. It never panics on
// malformed input: an invalid leading byte yields RuneError and advances by
// one byte, matching how clink's str_iter treats stray bytes.
type Iter struct {
	s   []byte
	pos int
}

// NewIter wraps s for forward iteration starting at offset 0.
func NewIter(s []byte) *Iter {
	return &Iter{s: s}
}

// NewIterString is a convenience constructor over a Go string.
func NewIterString(s string) *Iter {
	return &Iter{s: []byte(s)}
}

// Pointer returns the current byte offset into the wrapped slice.
func (it *Iter) Pointer() int { return it.pos }

// More reports whether there is at least one more byte to decode.
func (it *Iter) More() bool { return it.pos < len(it.s) }

// Peek returns the rune at the current position without advancing, or 0 at
// end of input.
func (it *Iter) Peek() rune {
	if !it.More() {
		return 0
	}
	r, _ := utf8.DecodeRune(it.s[it.pos:])
	return r
}

// Next returns the rune at the current position and advances past it, or
// returns 0 without advancing at end of input.
func (it *Iter) Next() rune {
	if !it.More() {
		return 0
	}
	r, n := utf8.DecodeRune(it.s[it.pos:])
	it.pos += n
	return r
}

// Utf16Iter walks a UTF-16 code unit slice, joining surrogate pairs into a
// single rune and handling a stray half of a pair by yielding it verbatim.
type Utf16Iter struct {
	s   []uint16
	pos int
}

// NewUtf16Iter wraps s for forward iteration.
func NewUtf16Iter(s []uint16) *Utf16Iter {
	return &Utf16Iter{s: s}
}

// More reports whether there is at least one more code unit to decode.
func (it *Utf16Iter) More() bool { return it.pos < len(it.s) }

// Next returns the next rune, consuming one or two code units, or 0 at end
// of input.
func (it *Utf16Iter) Next() rune {
	if !it.More() {
		return 0
	}
	c := it.s[it.pos]
	it.pos++
	if c >= 0xd800 && c <= 0xdbff && it.More() {
		c2 := it.s[it.pos]
		if c2 >= 0xdc00 && c2 <= 0xdfff {
			it.pos++
			return ((rune(c) - 0xd800) << 10) + (rune(c2) - 0xdc00) + 0x10000
		}
	}
	return rune(c)
}
