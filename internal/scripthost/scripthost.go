// Package scripthost defines the boundary between this engine and the
// out-of-scope script-language binding that runs a user's completion and
// prompt scripts. The spec treats the script host as an opaque external
// collaborator: this package only models the three calls that cross the
// boundary (clink._generate, clink._get_prefix_length,
// clink._filter_prompt in the fixed ABI spec.md names) and an adapter that
// lets a Host stand in as a match.Generator. No scripting engine lives
// here — wiring an actual Lua (or other) runtime behind Host is left to
// the host-embedding shim.
package scripthost

import "github.com/ehrlich-b/clinkgo/internal/match"

// Host is the script-language binding's interface, forwarded to over the
// fixed ABI: generate completions for a line, filter prompt text before
// it's drawn, and report how many leading bytes of the end word a script
// generator considers a fixed, non-editable prefix.
type Host interface {
	// Generate asks the script host to produce matches for line. ok is
	// false when no script generator wants to handle this line at all
	// (distinct from handling it and finding zero matches).
	Generate(line string) (matches []string, ok bool)

	// FilterPrompt lets a script rewrite prompt text (e.g. to inject git
	// branch info) before it's displayed.
	FilterPrompt(text string) string

	// GetPrefixLength reports how many leading bytes of line's end word
	// this host's generator(s) treat as a fixed prefix.
	GetPrefixLength(line string) int
}

// NullHost is the no-op Host used when no script engine is attached: it
// never claims a line, passes prompt text through unchanged, and declares
// no fixed prefix.
type NullHost struct{}

// Generate implements Host.
func (NullHost) Generate(line string) ([]string, bool) { return nil, false }

// FilterPrompt implements Host.
func (NullHost) FilterPrompt(text string) string { return text }

// GetPrefixLength implements Host.
func (NullHost) GetPrefixLength(line string) int { return 0 }

// Generator adapts a Host into a match.Generator, the role
// LuaMatchGenerator plays against MatchGenerator upstream: it forwards
// generate/get_prefix_length calls across the script-host boundary and
// turns the returned match text into Builder.AddMatch calls.
type Generator struct {
	Host Host
}

// NewGenerator returns a Generator forwarding to host.
func NewGenerator(host Host) *Generator {
	return &Generator{Host: host}
}

// Generate implements match.Generator by forwarding to the script host.
func (g *Generator) Generate(line match.LineState, builder *match.Builder) bool {
	matches, ok := g.Host.Generate(line.Line)
	if !ok {
		return false
	}
	for _, m := range matches {
		builder.AddMatch(m)
	}
	return true
}

// GetPrefixLength implements match.Generator by forwarding to the script
// host.
func (g *Generator) GetPrefixLength(line match.LineState) int {
	return g.Host.GetPrefixLength(line.Line)
}

// FilterPrompt forwards prompt text through the script host, the same
// call host::filter_prompt makes before assembling the displayed prompt.
func FilterPrompt(host Host, text string) string {
	return host.FilterPrompt(text)
}
