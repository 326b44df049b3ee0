package match

import "testing"

func TestAddMatchAndRetrieve(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	if !b.AddMatchDesc(Desc{Match: "foo", Displayable: "foo*", Aux: "alias", Suffix: '/'}) {
		t.Fatalf("AddMatchDesc failed")
	}
	// infoCount reflects un-coalesced matches; exercise via FillInfo+Select
	// to settle count through the normal pipeline path instead of reaching
	// into internals.
	p := NewPipeline(m)
	p.FillInfo()
	p.Select("", CompareExact)

	if got, _ := m.Match(0); got != "foo" {
		t.Fatalf("Match(0) = %q, want foo", got)
	}
	if got, _ := m.Displayable(0); got != "foo*" {
		t.Fatalf("Displayable(0) = %q, want foo*", got)
	}
	if got, _ := m.Aux(0); got != "alias" {
		t.Fatalf("Aux(0) = %q, want alias", got)
	}
	if m.Suffix(0) != '/' {
		t.Fatalf("Suffix(0) = %q, want /", m.Suffix(0))
	}
	if !m.HasAux() {
		t.Fatalf("HasAux() = false, want true")
	}
}

func TestDisplayableFallsBackToMatch(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatch("bareword")
	p := NewPipeline(m)
	p.Select("", CompareExact)
	if got, _ := m.Displayable(0); got != "bareword" {
		t.Fatalf("Displayable(0) = %q, want fallback to match text", got)
	}
}

func TestHasAuxReflectsLastAddedMatchOnly(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatchDesc(Desc{Match: "a", Aux: "has-aux"})
	b.AddMatchDesc(Desc{Match: "b"})
	if m.HasAux() {
		t.Fatalf("HasAux() = true, want false: last added match had no aux")
	}
}

func TestEmptyMatchRejected(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	if b.AddMatch("") {
		t.Fatalf("AddMatch(\"\") should fail")
	}
}

func TestSelectAndCoalescePartitionsPrefix(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatch("apple")
	b.AddMatch("banana")
	b.AddMatch("apricot")

	p := NewPipeline(m)
	p.FillInfo()
	p.Select("ap", CompareExact)

	if m.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 selected matches", m.Count())
	}
	seen := map[string]bool{}
	for i := 0; i < m.Count(); i++ {
		s, _ := m.Match(i)
		seen[s] = true
	}
	if !seen["apple"] || !seen["apricot"] {
		t.Fatalf("expected apple and apricot selected, got %v", seen)
	}
}

func TestSortOrdersCaseInsensitively(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatch("Banana")
	b.AddMatch("apple")
	b.AddMatch("Cherry")

	p := NewPipeline(m)
	p.FillInfo()
	p.Select("", CompareExact)
	p.Sort()

	want := []string{"apple", "Banana", "Cherry"}
	for i, w := range want {
		got, _ := m.Match(i)
		if got != w {
			t.Fatalf("Match(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestLCDOfSingleMatch(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatch("solo")
	p := NewPipeline(m)
	p.Select("", CompareExact)
	if got := m.LCD(CompareExact); got != "solo" {
		t.Fatalf("LCD() = %q, want solo", got)
	}
}

func TestLCDOfMultipleMatches(t *testing.T) {
	m := NewMatches(0)
	b := NewBuilder(m)
	b.AddMatch("pre_space 1")
	b.AddMatch("pre_space 2")
	b.AddMatch("pre_space_space 2")
	p := NewPipeline(m)
	p.Select("", CompareExact)
	if got := m.LCD(CompareExact); got != "pre_space" {
		t.Fatalf("LCD() = %q, want pre_space", got)
	}
}

func TestStoreExhaustionFailsFurtherAdds(t *testing.T) {
	m := NewMatches(64)
	b := NewBuilder(m)
	added := 0
	for i := 0; i < 100; i++ {
		if b.AddMatch("0123456789") {
			added++
		}
	}
	if added == 0 || added >= 100 {
		t.Fatalf("expected the small arena to exhaust partway through, added=%d", added)
	}
}
