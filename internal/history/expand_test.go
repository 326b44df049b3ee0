package history

import "testing"

func TestExpandControlOutsideQuotesExpands(t *testing.T) {
	if !ExpandControl("echo !!", 5) {
		t.Fatalf("ExpandControl(unquoted) = false, want true")
	}
}

func TestExpandControlNotQuotedModeSkipsInsideDoubleQuotes(t *testing.T) {
	line := `echo "a!b"`
	markerPos := 6
	if line[markerPos] != '!' {
		t.Fatalf("test setup: marker position %d is %q, want '!'", markerPos, line[markerPos])
	}
	if expandControl(line, markerPos, ExpandNotQuoted) {
		t.Fatalf("expandControl(not_quoted, inside double quotes) = true, want false")
	}
}

// TestExpandControlSharedInQuoteFlagCrossesQuoteKinds exercises the ported
// quirk: a '"' toggles the same in_quote flag a preceding unmatched '\''
// set, so in `echo it's a "!test` the '"' turns the flag back off and the
// '!' counts as unquoted even though it follows an opening double quote.
func TestExpandControlSharedInQuoteFlagCrossesQuoteKinds(t *testing.T) {
	line := `echo it's a "!test`
	markerPos := len(`echo it's a "`)
	if line[markerPos] != '!' {
		t.Fatalf("test setup: marker position %d is %q, want '!'", markerPos, line[markerPos])
	}
	// One '\'' then one '"' before the marker: two toggles, so in_quote is
	// back off by the time we reach it — expansion proceeds.
	if !expandControl(line, markerPos, ExpandNotQuoted) {
		t.Fatalf("expandControl(not_quoted) = false, want true (quote flag toggled back off)")
	}
}

func TestExpandControlIgnoresNonMarkerBytes(t *testing.T) {
	if ExpandControl("echo hi", 2) {
		t.Fatalf("ExpandControl at a non-marker byte = true, want false")
	}
}

func TestExpandControlOffModeNeverExpands(t *testing.T) {
	if expandControl("echo !!", 5, ExpandOff) {
		t.Fatalf("expandControl(off) = true, want false")
	}
}
