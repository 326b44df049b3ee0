package strutil

import "testing"

func TestIterASCII(t *testing.T) {
	it := NewIterString("abc")
	var got []rune
	for it.More() {
		got = append(got, it.Next())
	}
	want := []rune{'a', 'b', 'c'}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestIterUTF8Multibyte(t *testing.T) {
	it := NewIterString("aé中")
	if r := it.Next(); r != 'a' {
		t.Fatalf("got %q want 'a'", r)
	}
	if r := it.Next(); r != 'é' {
		t.Fatalf("got %q want e-acute", r)
	}
	if r := it.Next(); r != '中' {
		t.Fatalf("got %q want CJK char", r)
	}
	if it.More() {
		t.Fatalf("expected exhausted iterator")
	}
}

func TestIterPointerAdvancesByEncodedLength(t *testing.T) {
	it := NewIterString("中x")
	if it.Pointer() != 0 {
		t.Fatalf("initial pointer = %d, want 0", it.Pointer())
	}
	it.Next()
	if it.Pointer() != 3 {
		t.Fatalf("pointer after 3-byte rune = %d, want 3", it.Pointer())
	}
	it.Next()
	if it.Pointer() != 4 {
		t.Fatalf("pointer after ascii rune = %d, want 4", it.Pointer())
	}
}

func TestUtf16IterSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a surrogate pair.
	units := []uint16{0xd83d, 0xde00, 'x'}
	it := NewUtf16Iter(units)
	if r := it.Next(); r != 0x1F600 {
		t.Fatalf("got %x want U+1F600", r)
	}
	if r := it.Next(); r != 'x' {
		t.Fatalf("got %q want 'x'", r)
	}
}

func TestUtf16IterUnpairedSurrogate(t *testing.T) {
	units := []uint16{0xd83d, 'y'}
	it := NewUtf16Iter(units)
	if r := it.Next(); r != 0xd83d {
		t.Fatalf("got %x want the raw unpaired high surrogate", r)
	}
	if r := it.Next(); r != 'y' {
		t.Fatalf("got %q want 'y'", r)
	}
}

func TestCellWidthControlIsZero(t *testing.T) {
	if w := CellWidth('\t'); w != 0 {
		t.Fatalf("CellWidth(tab) = %d, want 0", w)
	}
	if w := CellWidth(0x7f); w != 0 {
		t.Fatalf("CellWidth(DEL) = %d, want 0", w)
	}
}

func TestCellWidthWideCharIsTwo(t *testing.T) {
	if w := CellWidth('中'); w != 2 {
		t.Fatalf("CellWidth(CJK) = %d, want 2", w)
	}
}

func TestCellCountStringSumsWidths(t *testing.T) {
	if n := CellCountString("a中b"); n != 4 {
		t.Fatalf("CellCountString = %d, want 4", n)
	}
}

func TestCellCountBytesMatchesString(t *testing.T) {
	s := "hi中there"
	if CellCountBytes([]byte(s)) != CellCountString(s) {
		t.Fatalf("byte/string cell counts disagree")
	}
}
