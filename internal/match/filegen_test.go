package match

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestFileGeneratorListsMatchingEntries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"apple.txt", "apricot.txt", "banana.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	g := &FileGenerator{}
	m := NewMatches(0)
	b := NewBuilder(m)

	word := filepath.Join(dir, "ap")
	line := LineState{Line: word, Cursor: len(word), WordOffset: 0, WordLength: len(word)}
	g.Generate(line, b)

	p := NewPipeline(m)
	p.Select("", CompareExact)

	var got []string
	for i := 0; i < m.Count(); i++ {
		s, _ := m.Match(i)
		got = append(got, filepath.Base(s))
	}
	sort.Strings(got)

	want := []string{"apple.txt", "apricot.txt"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFileGeneratorPrefixLength(t *testing.T) {
	g := &FileGenerator{}
	line := LineState{Line: "/usr/loc", Cursor: 8, WordOffset: 0, WordLength: 8}
	if got := g.GetPrefixLength(line); got != 5 {
		t.Fatalf("GetPrefixLength() = %d, want 5 (length of \"/usr/\")", got)
	}
}
