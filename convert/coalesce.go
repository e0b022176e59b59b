package convert

import (
	"strings"

	"github.com/gerunddev/mdslate/richtext"
)

// forceLeaf flattens converted children into their plain text
func forceLeaf(children []richtext.Node) string {
	var b strings.Builder
	for _, c := range children {
		if c == nil {
			continue
		}
		b.WriteString(c.PlainText())
	}
	return b.String()
}

// persistFormats returns the union of the formats of all descendant leaves
func persistFormats(children []richtext.Node) richtext.Formats {
	var f richtext.Formats
	richtext.Walk(children, func(n richtext.Node) bool {
		if l, ok := n.(*richtext.Leaf); ok {
			f = f.Union(l.Formats)
		}
		return true
	})
	return f
}

// coalesce collapses a formatting construct into a single leaf carrying its
// own flag and every flag found below it
func coalesce(children []richtext.Node, own richtext.Formats) *richtext.Leaf {
	return &richtext.Leaf{
		Text:    forceLeaf(children),
		Formats: persistFormats(children).Union(own),
	}
}
