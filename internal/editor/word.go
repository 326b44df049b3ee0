package editor

import "strings"

// Word is one delimiter-separated span of the input line.
type Word struct {
	Offset int
	Length int
	Quoted bool
	Delim  byte
}

// End returns the offset one past the word's last byte.
func (w Word) End() int { return w.Offset + w.Length }

// quotePair is a single open/close quote character pair a tokenizer treats
// as starting (and needing to find the matching end of) a quoted run.
type quotePair struct{ left, right byte }

// tokenizer splits a string on a set of delimiter bytes, treating any
// configured quote pair as suppressing delimiters until its matching close
// (or end of input), grounded on core/src/str_tokeniser.cpp's next_impl.
type tokenizer struct {
	s      string
	pos    int
	delims string
	quotes []quotePair
}

func newTokenizer(s, delims string) *tokenizer {
	return &tokenizer{s: s, delims: delims}
}

func (t *tokenizer) addQuotePair(pair string) {
	if pair == "" {
		return
	}
	left := pair[0]
	right := left
	if len(pair) > 1 {
		right = pair[1]
	}
	t.quotes = append(t.quotes, quotePair{left, right})
}

func (t *tokenizer) rightQuote(left byte) byte {
	for _, q := range t.quotes {
		if q.left == left {
			return q.right
		}
	}
	return 0
}

// token is one tokenizer.next() result: a non-empty [start,start+length)
// span, plus the delimiter byte skipped immediately before it (0 if the
// span starts at the very beginning of the input). valid is false once the
// input is exhausted.
type token struct {
	start  int
	length int
	delim  byte
	valid  bool
}

func (t *tokenizer) next() token {
	var delim byte
	for t.pos < len(t.s) && strings.IndexByte(t.delims, t.s[t.pos]) >= 0 {
		delim = t.s[t.pos]
		t.pos++
	}

	start := t.pos
	var quoteClose byte
	for t.pos < len(t.s) {
		c := t.s[t.pos]
		if quoteClose != 0 {
			if quoteClose == c {
				quoteClose = 0
			}
			t.pos++
			continue
		}
		if strings.IndexByte(t.delims, c) >= 0 {
			break
		}
		quoteClose = t.rightQuote(c)
		t.pos++
	}
	end := t.pos

	if start == end {
		return token{}
	}
	return token{start: start, length: end - start, delim: delim, valid: true}
}
