package invoice

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// isLineBreak reports whether r ends a line of extracted text. PDF text
// engines emit lone \r, form feeds and Unicode separators as well as \n.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// splitLines yields the lines of text without their terminators. "\r\n"
// counts as one break and a trailing break adds no empty line.
func splitLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isLineBreak(r) {
				i += size
				continue
			}
			end := i
			i += size
			if r == '\r' && i < len(text) && text[i] == '\n' {
				i++
			}
			if !yield(text[start:end]) {
				return
			}
			start = i
		}
		if start < len(text) {
			yield(text[start:])
		}
	}
}

// foldSpace maps non-ASCII whitespace such as NBSP to a plain space so the
// ASCII-only \s of the field patterns matches it. ASCII characters are kept.
func foldSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf && unicode.IsSpace(r) {
			return ' '
		}
		if r == '\x1f' {
			return ' '
		}
		return r
	}, s)
}
