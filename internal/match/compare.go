package match

// CompareMode selects how strictly two match strings are compared: the
// same three-way policy match.ignore_case maps onto (off/on/relaxed).
type CompareMode int

const (
	CompareExact CompareMode = iota
	CompareCaseless
	CompareRelaxed
)

func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Compare walks a and b byte-by-byte under mode until either diverges or
// one of them ends. equal is true only when both strings end at the same
// position (fully equal under mode); otherwise mismatchIndex is the byte
// offset where they diverged, which may equal len(a) or len(b) when one
// string is a strict prefix of the other.
func Compare(a, b string, mode CompareMode) (mismatchIndex int, equal bool) {
	i := 0
	for i < len(a) && i < len(b) {
		c, d := a[i], b[i]
		if mode >= CompareCaseless {
			c, d = asciiLower(c), asciiLower(d)
		}
		if mode >= CompareRelaxed {
			if c == '-' {
				c = '_'
			}
			if d == '-' {
				d = '_'
			}
		}
		if c != d {
			break
		}
		i++
	}
	if i < len(a) || i < len(b) {
		return i, false
	}
	return 0, true
}

// isPrefix reports whether needle is a prefix of name under mode (the
// selector's own notion of "matches", including needle == name exactly).
func isPrefix(needle, name string, mode CompareMode) bool {
	idx, equal := Compare(needle, name, mode)
	return equal || idx == len(needle)
}
