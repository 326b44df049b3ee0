// Package match implements the completion match store and the pipeline
// that fills, filters, and sorts it.
package match

import (
	"github.com/dustin/go-humanize"

	"github.com/ehrlich-b/clinkgo/internal/ecma48"
	"github.com/ehrlich-b/clinkgo/internal/logger"
)

// Desc describes one candidate being added to a Matches set.
type Desc struct {
	Match       string
	Displayable string // "" means: use Match
	Aux         string // "" means: no aux annotation
	Suffix      byte   // 0 means: derive from word delimiters
}

type info struct {
	storeID            int
	displayableStoreID int
	auxStoreID         int
	cellCount          int
	suffix             byte
	selected           bool
}

// Matches holds one generation's worth of completion candidates: a dual-end
// byte arena (match text grows from the front, displayable/aux text from
// the back) plus a parallel slice of per-match metadata.
type Matches struct {
	store          *store
	infos          []info
	count          int
	coalesced      bool
	hasAux         bool
	prefixIncluded bool
}

// NewMatches returns an empty Matches backed by a storeSize-byte arena
// (clamped to the 64KiB hard cap).
func NewMatches(storeSize int) *Matches {
	return &Matches{store: newStore(storeSize)}
}

// Count returns the number of live matches (post-coalesce, the selected
// subset; pre-coalesce, everything generated).
func (m *Matches) Count() int { return m.count }

// Match returns the i-th match's insertable text.
func (m *Matches) Match(i int) (string, bool) {
	if i < 0 || i >= m.count {
		return "", false
	}
	return m.store.get(m.infos[i].storeID)
}

// Displayable returns the i-th match's display text, falling back to its
// insertable text when no displayable form was supplied.
func (m *Matches) Displayable(i int) (string, bool) {
	if i < 0 || i >= m.count {
		return "", false
	}
	id := m.infos[i].displayableStoreID
	if id == 0 {
		id = m.infos[i].storeID
	}
	return m.store.get(id)
}

// Aux returns the i-th match's auxiliary annotation, if any.
func (m *Matches) Aux(i int) (string, bool) {
	if i < 0 || i >= m.count {
		return "", false
	}
	if id := m.infos[i].auxStoreID; id != 0 {
		return m.store.get(id)
	}
	return "", false
}

// Suffix returns the i-th match's explicit suffix byte, or 0.
func (m *Matches) Suffix(i int) byte {
	if i < 0 || i >= m.count {
		return 0
	}
	return m.infos[i].suffix
}

// CellCount returns the i-th match's cached display width.
func (m *Matches) CellCount(i int) int {
	if i < 0 || i >= m.count {
		return 0
	}
	return m.infos[i].cellCount
}

// HasAux reports whether the most recently added match carried an aux
// annotation. This mirrors matches_impl.cpp's add_match, which assigns
// (not ORs) `_has_aux` on every call — so it reflects the last match added
// during generation, not "any match in the set has aux". Preserved as a
// deliberate compatibility choice rather than "fixed" to an OR, since
// nothing in generate() ever reorders matches after this flag is set and
// downstream code only reads it once generation has finished.
func (m *Matches) HasAux() bool { return m.hasAux }

// PrefixIncluded reports whether the active generator already embeds the
// current word's prefix in its match text (set via Builder.SetPrefixIncluded).
func (m *Matches) PrefixIncluded() bool { return m.prefixIncluded }

func (m *Matches) reset() {
	m.store.reset()
	m.infos = m.infos[:0]
	m.coalesced = false
	m.count = 0
	m.hasAux = false
	m.prefixIncluded = false
}

func (m *Matches) setPrefixIncluded(included bool) { m.prefixIncluded = included }

func (m *Matches) addMatch(desc Desc) bool {
	if m.coalesced || desc.Match == "" {
		return false
	}

	storeID, ok := m.store.storeFront(desc.Match)
	if !ok {
		logger.With("match").Warn("match store full, dropping candidate",
			"capacity", humanize.Bytes(uint64(len(m.store.buf))), "generated", m.count)
		return false
	}

	displayableID := 0
	if desc.Displayable != "" {
		if id, ok := m.store.storeBack(desc.Displayable); ok {
			displayableID = id
		}
	}

	auxID := 0
	m.hasAux = desc.Aux != ""
	if m.hasAux {
		if id, ok := m.store.storeBack(desc.Aux); ok {
			auxID = id
		}
	}

	m.infos = append(m.infos, info{
		storeID:            storeID,
		displayableStoreID: displayableID,
		auxStoreID:         auxID,
		suffix:             desc.Suffix,
	})
	m.count++
	return true
}

// infoCount returns the total number of generated matches, before any
// select/coalesce has filtered them.
func (m *Matches) infoCount() int { return len(m.infos) }

// coalesce partitions infos so that the countHint selected entries occupy
// the prefix [0, countHint) of the slice, in their original relative order
// among themselves, then sets Count to that prefix's length.
func (m *Matches) coalesce(countHint int) {
	j := 0
	for i := 0; i < len(m.infos) && j < countHint; i++ {
		if !m.infos[i].selected {
			continue
		}
		if i != j {
			m.infos[j], m.infos[i] = m.infos[i], m.infos[j]
		}
		j++
	}
	m.count = j
	m.coalesced = true
}

// LCD returns the longest string that is a prefix of every current match
// under mode (clamped to at most CompareCaseless, mirroring fill_info's own
// StrCompareScope clamp: a relaxed-mode session LCDs caselessly, without the
// '-'/'_' folding, while an exact-mode session LCDs exactly).
func (m *Matches) LCD(mode CompareMode) string {
	if mode > CompareCaseless {
		mode = CompareCaseless
	}

	n := m.count
	if n <= 0 {
		return ""
	}

	first, _ := m.Match(0)
	if n == 1 {
		return first
	}

	lcdLen := len(first)
	for i := 1; i < n; i++ {
		candidate, _ := m.Match(i)
		idx, equal := Compare(candidate, first, mode)
		if !equal && idx < lcdLen {
			lcdLen = idx
		}
	}
	return first[:lcdLen]
}

// Builder is the narrow, generator-facing handle onto a Matches set: a
// generator only ever adds matches and declares its prefix policy, never
// reads back what has already been added.
type Builder struct {
	matches *Matches
}

// NewBuilder returns a Builder that adds matches into m.
func NewBuilder(m *Matches) *Builder { return &Builder{matches: m} }

// AddMatch adds a bare match with no displayable/aux/suffix override.
func (b *Builder) AddMatch(text string) bool {
	return b.matches.addMatch(Desc{Match: text})
}

// AddMatchDesc adds a fully-described match.
func (b *Builder) AddMatchDesc(desc Desc) bool {
	return b.matches.addMatch(desc)
}

// SetPrefixIncluded declares whether this generator's matches already embed
// the word's current prefix (so the pipeline should not re-prepend it).
func (b *Builder) SetPrefixIncluded(included bool) {
	b.matches.setPrefixIncluded(included)
}

func cellCountOf(s string) int { return ecma48.CellCount([]byte(s)) }
