package editor

import "strings"

// acceptMatch replaces the end word with the index-th current match, ported
// from LineEditorImpl::accept_match. The original's path-normalisation step
// here is dropped deliberately: its own author flags it with a TODO saying
// it has no place in this method and belongs elsewhere, and nothing in this
// port ever grew the "elsewhere" it was meant to move to.
func (k *Kernel) acceptMatch(index int) {
	text, ok := k.matches.Match(index)
	if !ok || text == "" {
		return
	}

	endWord := k.words[len(k.words)-1]
	wordStart := endWord.Offset

	var toInsert strings.Builder
	if !k.matches.PrefixIncluded() {
		buf := k.buffer.Text()
		wordEnd := endWord.Offset + endWord.Length
		if wordEnd > len(buf) {
			wordEnd = len(buf)
		}
		if wordStart < wordEnd {
			toInsert.WriteString(buf[wordStart:wordEnd])
		}
	}
	toInsert.WriteString(text)
	insertText := toInsert.String()

	needsQuote := endWord.Quoted
	for i := 0; i < len(text) && !needsQuote; i++ {
		needsQuote = strings.IndexByte(k.desc.WordDelims, text[i]) >= 0
	}

	k.buffer.Remove(wordStart, k.buffer.Cursor())
	k.buffer.SetCursor(wordStart)

	if needsQuote && !endWord.Quoted {
		if open := k.openQuote(); open != 0 {
			k.buffer.Insert(string(open))
		}
	}

	k.buffer.Insert(insertText)

	matchSuffix := k.matches.Suffix(index)
	suffix := matchSuffix
	if suffix == 0 {
		matchLine := LineState{Line: text, Cursor: len(text), Words: []Word{{Offset: 0, Length: len(text)}}}
		prefixLength := 0
		endWordMatch := matchLine.EndWord()
		for _, g := range k.generators {
			if n := g.GetPrefixLength(matchLine.toMatchLineState(endWordMatch)); n > prefixLength {
				prefixLength = n
			}
		}
		if prefixLength != len(text) && k.desc.WordDelims != "" {
			suffix = k.desc.WordDelims[0]
		}
	}

	if suffix != 0 {
		if needsQuote && matchSuffix == 0 {
			if closing := k.closingQuote(); closing != 0 {
				k.buffer.Insert(string(closing))
			}
		}
		cursor := k.buffer.Cursor()
		buf := k.buffer.Text()
		if cursor >= len(buf) || buf[cursor] != suffix {
			k.buffer.Insert(string(suffix))
		} else {
			k.buffer.SetCursor(cursor + 1)
		}
	}
}

// appendMatchLCD grows or shrinks the end word to match the current
// matches' longest common denominator, ported from
// LineEditorImpl::append_match_lcd.
func (k *Kernel) appendMatchLCD() {
	lcd := k.matches.LCD(k.desc.CompareMode)
	lcdLength := len(lcd)
	if lcdLength == 0 {
		return
	}

	cursor := k.buffer.Cursor()
	endWord := k.words[len(k.words)-1]
	wordEnd := endWord.Offset
	if !k.matches.PrefixIncluded() {
		wordEnd += endWord.Length
	}

	dx := lcdLength - (cursor - wordEnd)
	switch {
	case dx < 0:
		k.buffer.Remove(cursor+dx, cursor)
		k.buffer.SetCursor(cursor + dx)
	case dx > 0:
		start := endWord.Offset
		if !k.matches.PrefixIncluded() {
			start += endWord.Length
		}
		k.buffer.Remove(start, cursor)
		k.buffer.SetCursor(start)
		k.buffer.Insert(lcd)
	}

	needsQuote := false
	for i := 0; i < len(lcd) && !needsQuote; i++ {
		needsQuote = strings.IndexByte(k.desc.WordDelims, lcd[i]) >= 0
	}
	for i := 0; i < k.matches.Count() && !needsQuote; i++ {
		m, _ := k.matches.Match(i)
		if len(m) > lcdLength && m[lcdLength] != 0 {
			needsQuote = strings.IndexByte(k.desc.WordDelims, m[lcdLength]) >= 0
		}
	}

	if needsQuote && !endWord.Quoted {
		if open := k.openQuote(); open != 0 {
			cursor := k.buffer.Cursor()
			k.buffer.SetCursor(endWord.Offset)
			k.buffer.Insert(string(open))
			k.buffer.SetCursor(cursor + 1)
		}
	}
}
