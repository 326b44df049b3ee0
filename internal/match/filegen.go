package match

import (
	"os"
	"path/filepath"
	"strings"
)

// FileGenerator completes filesystem paths for the word under the cursor,
// adapted from file_match_generator.cpp's directory-glob default generator.
type FileGenerator struct {
	// IncludeHidden mirrors the files.hidden setting.
	IncludeHidden bool
}

// Generate lists the directory containing the end word and adds every
// entry whose name has the word's base as a prefix.
func (g *FileGenerator) Generate(line LineState, builder *Builder) bool {
	word := line.EndWord()

	dir, prefix := filepath.Split(word)
	if dir == "" {
		dir = "."
	}

	// Every candidate below is a full path (directory plus entry name), so
	// it already embeds whatever prefix the user typed; the pipeline must
	// not also re-prepend it.
	builder.SetPrefixIncluded(true)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}

	for _, e := range entries {
		name := e.Name()
		if !g.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		full := filepath.Join(dir, name)
		if dir == "." && !strings.HasPrefix(word, "./") {
			full = name
		}
		if e.IsDir() {
			full += string(filepath.Separator)
		}
		builder.AddMatch(full)
	}

	return true
}

// GetPrefixLength returns how much of the end word is a directory path a
// match-list renderer should trim before display (everything up to and
// including the final path separator) — matches themselves stay full paths,
// since Generate already sets SetPrefixIncluded(true).
func (g *FileGenerator) GetPrefixLength(line LineState) int {
	word := line.EndWord()
	sep := strings.LastIndexAny(word, `/\`)
	if sep < 0 {
		return 0
	}
	return sep + 1
}
