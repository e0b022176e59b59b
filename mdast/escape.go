package mdast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escapeText backslash-escapes the characters of value that a Markdown
// parser would otherwise read as syntax. lineStart tells whether value
// begins a line.
func escapeText(value string, lineStart bool) string {
	var b strings.Builder
	b.Grow(len(value))

	atLineStart := lineStart
	var prev rune
	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		next, _ := utf8.DecodeRuneInString(value[i+size:])

		if atLineStart && r != ' ' && r != '\t' {
			if end := orderedMarkerEnd(value[i:]); end > 0 {
				// "1." at the start of a line would open a list
				b.WriteString(value[i : i+end-1])
				b.WriteByte('\\')
				b.WriteByte(value[i+end-1])
				i += end
				prev = rune(value[i-1])
				atLineStart = false
				continue
			}
			if strings.ContainsRune("#>-+=", r) {
				b.WriteByte('\\')
			}
			atLineStart = false
		}

		switch {
		case strings.ContainsRune("\\`*_[]~", r):
			b.WriteByte('\\')
		case r == '<' && (unicode.IsLetter(next) || next == '/' || next == '!' || next == '?'):
			b.WriteByte('\\')
		case r == '&' && (unicode.IsLetter(next) || next == '#'):
			b.WriteByte('\\')
		case r == '@' && !isWord(prev) && isWord(next):
			// would start an inline citation
			b.WriteByte('\\')
		}

		b.WriteString(value[i : i+size])
		if r == '\n' {
			atLineStart = true
		}
		prev = r
		i += size
	}
	return b.String()
}

// orderedMarkerEnd returns the length of a leading "123." or "123)" followed
// by a space or the end of the text, or 0.
func orderedMarkerEnd(s string) int {
	digits := 0
	for digits < len(s) && digits < 9 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(s) || (s[digits] != '.' && s[digits] != ')') {
		return 0
	}
	end := digits + 1
	if end < len(s) && s[end] != ' ' && s[end] != '\t' && s[end] != '\n' {
		return 0
	}
	return end
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
