// Package markup holds text helpers shared by the Markdown writers.
package markup

import (
	"strings"
	"unicode"
)

// Wrap surrounds the non-whitespace core of s with marker and keeps the
// leading and trailing whitespace outside of it, so "  bold " becomes
// "  **bold** ". Strings without a core are returned unchanged.
func Wrap(s, marker string) string {
	core := strings.TrimFunc(s, unicode.IsSpace)
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]
	return lead + marker + core + marker + trail
}

// IndentLines prefixes every non-empty line of s except the first
func IndentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// PrefixLines prefixes every line of s. Empty lines get blank instead.
func PrefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blank
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
