package match

import "sort"

// Pipeline runs the reset/generate/fill_info/select/sort stages over a
// Matches set, keyed by the editor kernel's word and cursor fingerprints.
type Pipeline struct {
	matches *Matches
}

// NewPipeline returns a Pipeline operating on m.
func NewPipeline(m *Matches) *Pipeline { return &Pipeline{matches: m} }

// Reset clears the match set for a fresh generation pass.
func (p *Pipeline) Reset() { p.matches.reset() }

// Generate runs generators in order against line, stopping at the first one
// whose Generate returns true.
func (p *Pipeline) Generate(line LineState, generators []Generator) {
	builder := NewBuilder(p.matches)
	for _, g := range generators {
		if g.Generate(line, builder) {
			break
		}
	}
}

// FillInfo precomputes each match's cached display width from its
// displayable form. Runs over every generated info directly — count and
// coalesce haven't settled the live subset yet at this stage.
func (p *Pipeline) FillInfo() {
	for i := range p.matches.infos {
		id := p.matches.infos[i].displayableStoreID
		if id == 0 {
			id = p.matches.infos[i].storeID
		}
		text, _ := p.matches.store.get(id)
		p.matches.infos[i].cellCount = cellCountOf(text)
	}
}

// Select sets the select bit on every info whose match has needle as a
// prefix under mode, then coalesces the selected entries to the front.
func (p *Pipeline) Select(needle string, mode CompareMode) {
	infos := p.matches.infos
	count := len(infos)
	if count == 0 {
		return
	}

	selected := 0
	for i := range infos {
		name, _ := p.matches.store.get(infos[i].storeID)
		infos[i].selected = isPrefix(needle, name, mode)
		selected++
	}

	p.matches.coalesce(selected)
}

// Sort orders the current (post-coalesce) matches case-insensitively by
// their stored match text.
func (p *Pipeline) Sort() {
	count := p.matches.count
	if count == 0 {
		return
	}
	infos := p.matches.infos[:count]
	st := p.matches.store
	sort.SliceStable(infos, func(i, j int) bool {
		a, _ := st.get(infos[i].storeID)
		b, _ := st.get(infos[j].storeID)
		idx, equal := Compare(a, b, CompareCaseless)
		if equal {
			return false
		}
		// Compare walks until divergence; recover ordering the way
		// stricmp would by comparing the lowercase bytes at idx.
		if idx >= len(a) {
			return true
		}
		if idx >= len(b) {
			return false
		}
		return asciiLower(a[idx]) < asciiLower(b[idx])
	})
}
