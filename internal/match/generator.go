package match

// LineState is the narrow view of the input line a match generator needs:
// the full text, the cursor position, and the boundaries of the word the
// cursor sits in. The editor kernel's tokenizer builds these.
type LineState struct {
	Line       string
	Cursor     int
	WordOffset int
	WordLength int
}

// EndWord returns the text of the word under the cursor.
func (l LineState) EndWord() string {
	end := l.WordOffset + l.WordLength
	if end > len(l.Line) {
		end = len(l.Line)
	}
	if l.WordOffset < 0 || l.WordOffset > end {
		return ""
	}
	return l.Line[l.WordOffset:end]
}

// Generator produces matches for the word under the cursor. A generator
// that has already embedded the word's prefix into its match text calls
// Builder.SetPrefixIncluded(true) so the pipeline doesn't double it up.
type Generator interface {
	Generate(line LineState, builder *Builder) bool
	GetPrefixLength(line LineState) int
}
