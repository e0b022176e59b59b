// Package citation implements pandoc-style citations: the item model, the
// Markdown rendering of a citation group and a goldmark extension that
// recognises citation syntax while parsing.
package citation

import "strings"

// Item is a single cited work inside a citation group
type Item struct {
	ID             string `json:"id"`
	Prefix         string `json:"prefix,omitempty"`
	Suffix         string `json:"suffix,omitempty"`
	Locator        string `json:"locator,omitempty"`
	Label          string `json:"label,omitempty"`
	SuppressAuthor bool   `json:"suppressAuthor,omitempty"`
	AuthorOnly     bool   `json:"authorOnly,omitempty"`
}

// Render returns the Markdown representation of a citation group.
// An author-only item short-circuits to the inline form "@id".
func Render(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.AuthorOnly {
			return "@" + item.ID
		}
		parts = append(parts, renderItem(item))
	}
	return "[" + strings.Join(parts, ";") + "]"
}

func renderItem(item Item) string {
	var b strings.Builder
	if item.Prefix != "" {
		b.WriteString(item.Prefix)
		b.WriteByte(' ')
	}
	if item.SuppressAuthor {
		b.WriteByte('-')
	}
	b.WriteByte('@')
	b.WriteString(item.ID)
	if item.Locator != "" {
		b.WriteByte(' ')
		b.WriteString(item.Locator)
	}
	return b.String()
}
