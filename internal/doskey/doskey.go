// Package doskey implements the Doskey macro tag-expansion language: the
// $1.."$9"/$*/$t/$T/$g/$l/$b/$$ substitutions applied to an alias's stored
// text once a command line's leading word matches an alias name. The
// alias table itself (on Windows, backed by AddConsoleAlias) is out of
// scope here; callers supply one via the AliasLookup interface.
package doskey

import "strings"

// AliasLookup resolves an alias name to its stored macro text. Lookup
// reports false when name isn't a known alias.
type AliasLookup interface {
	Lookup(name string) (text string, ok bool)
}

// MapLookup is the trivial AliasLookup backed by a plain map, handy for
// tests and for callers that keep their alias table in memory.
type MapLookup map[string]string

// Lookup implements AliasLookup.
func (m MapLookup) Lookup(name string) (string, bool) {
	text, ok := m[name]
	return text, ok
}

// Resolver expands Doskey macros against a line of input. Enhanced mirrors
// the "Doskey.enhanced" setting: when true, macros following '&'/'|'
// command separators are also expanded and $1.."$9" argument tokens honor
// double-quoted spans; when false, only a line's leading command expands
// and arguments split on whitespace alone.
type Resolver struct {
	Lookup   AliasLookup
	Enhanced bool
}

// NewResolver returns a Resolver with Enhanced defaulted to true, matching
// the upstream setting's default.
func NewResolver(lookup AliasLookup) *Resolver {
	return &Resolver{Lookup: lookup, Enhanced: true}
}

// Resolve expands line's leading alias (and, in Enhanced mode, any other
// aliases following a '&' or '|' separator) and returns the resulting
// commands in order. ok is false when no alias resolved, in which case
// the caller should use line unmodified.
func (r *Resolver) Resolve(line string) (commands []string, ok bool) {
	if r.Enhanced {
		return r.resolveEnhanced(line)
	}

	text, resolved := r.resolveCommand(line, false)
	if !resolved {
		return nil, false
	}
	return splitCommands(text), true
}

// resolveEnhanced expands every top-level command segment (split on '&'
// and '|', outside double quotes) that names an alias, copying delimiters
// and unresolved segments through verbatim, mirroring Doskey::resolve's
// two-pass coarse-check-then-expand structure.
func (r *Resolver) resolveEnhanced(line string) (commands []string, ok bool) {
	segments, delims := splitTopLevel(line)

	resolvedAny := false
	for _, seg := range segments {
		if _, segResolved := r.resolveCommand(seg, true); segResolved {
			resolvedAny = true
			break
		}
	}
	if !resolvedAny {
		return nil, false
	}

	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(delims[i-1])
		}
		if text, segResolved := r.resolveCommand(seg, true); segResolved {
			b.WriteString(text)
		} else {
			b.WriteString(seg)
		}
	}
	return splitCommands(b.String()), true
}

// resolveCommand expands a single command segment's leading alias. quoted
// selects whether argument tokens honor double-quoted spans (Enhanced
// mode adds a quote pair to the argument tokeniser; the leading alias name
// itself is never quote-aware, matching resolve_impl).
func (r *Resolver) resolveCommand(segment string, quoted bool) (string, bool) {
	nameStart := firstNonSpace(segment)
	if nameStart < 0 {
		return "", false
	}
	// Legacy Doskey never treats a macro preceded by whitespace as an
	// alias; Enhanced mode relaxes that.
	if !r.Enhanced && nameStart != 0 {
		return "", false
	}

	nameEnd := nameStart
	for nameEnd < len(segment) && segment[nameEnd] != ' ' {
		nameEnd++
	}
	name := segment[nameStart:nameEnd]

	text, found := r.Lookup.Lookup(name)
	if !found {
		return "", false
	}

	rest := segment[nameEnd:]
	args := tokenizeArgs(rest, quoted)
	tail := tailAfterFirstArg(rest)
	return expandTags(text, args, tail), true
}

// firstNonSpace returns the index of the first non-' ' byte in s, or -1 if
// s is all spaces (or empty).
func firstNonSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			return i
		}
	}
	return -1
}

// tokenizeArgs splits rest on runs of spaces into argument tokens, each
// token's text kept verbatim (including any quote characters it
// contains). When quoted is true, a double quote toggles a mode in which
// internal spaces no longer split tokens, matching WstrTokeniser's
// add_quote_pair("\"").
func tokenizeArgs(rest string, quoted bool) []string {
	var args []string
	inQuote := false
	start := -1
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if quoted && c == '"' {
			inQuote = !inQuote
		}
		if c == ' ' && !inQuote {
			if start >= 0 {
				args = append(args, rest[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		args = append(args, rest[start:])
	}
	return args
}

// tailAfterFirstArg returns the substring of rest starting at its first
// non-space byte through the end, the span $* substitutes: everything
// from the start of the first argument to the end of the command segment.
func tailAfterFirstArg(rest string) string {
	i := firstNonSpace(rest)
	if i < 0 {
		return ""
	}
	return rest[i:]
}

// expandTags walks text byte by byte, substituting $-tags against args and
// tail, and returns the expansion with "\x00" marking each $t/$T command
// boundary (collapsed into separate commands by splitCommands).
func expandTags(text string, args []string, tail string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(text) {
			break
		}
		c = text[i]

		switch c {
		case '$':
			b.WriteByte('$')
			continue
		case 'g', 'G':
			b.WriteByte('>')
			continue
		case 'l', 'L':
			b.WriteByte('<')
			continue
		case 'b', 'B':
			b.WriteByte('|')
			continue
		case 't', 'T':
			b.WriteByte('\x00')
			continue
		}

		idx := -2
		switch {
		case c >= '1' && c <= '9':
			idx = int(c - '1')
		case c == '*':
			idx = -1
		default:
			b.WriteByte('$')
			b.WriteByte(c)
			continue
		}

		if len(args) == 0 {
			continue
		}
		if idx < 0 {
			b.WriteString(tail)
		} else if idx < len(args) {
			b.WriteString(args[idx])
		}
	}
	return b.String()
}

// splitCommands splits s's $t/$T boundary markers into separate commands,
// matching the double-null-terminated array DoskeyAlias::next walks.
func splitCommands(s string) []string {
	return strings.Split(s, "\x00")
}

// splitTopLevel splits line into command segments on '&' and '|' bytes
// that fall outside double quotes, returning the segments and, between
// each adjacent pair, the exact delimiter run that separated them (so
// resolveEnhanced can copy it back verbatim).
func splitTopLevel(line string) (segments []string, delims []string) {
	inQuote := false
	start := 0
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '"' {
			inQuote = !inQuote
			i++
			continue
		}
		if !inQuote && (c == '&' || c == '|') {
			segments = append(segments, line[start:i])
			j := i
			for j < len(line) && (line[j] == '&' || line[j] == '|') {
				j++
			}
			delims = append(delims, line[i:j])
			start = j
			i = j
			continue
		}
		i++
	}
	segments = append(segments, line[start:])
	return segments, delims
}
