// Package serialize writes rich-text nodes directly as Markdown text,
// without going through a syntax tree.
package serialize

import (
	"html"
	"strings"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/internal/markup"
	"github.com/gerunddev/mdslate/richtext"
)

// BreakTag stands in for an empty paragraph line
const BreakTag = "<br>"

// DefaultMaxDepth bounds block nesting when Options.MaxDepth is unset
const DefaultMaxDepth = 512

// Options carry context down the recursion
type Options struct {
	// IgnoreParagraphNewline suppresses break tags for empty leaves
	IgnoreParagraphNewline bool
	// ListDepth is the nesting level of the enclosing list
	ListDepth int
	// Depth is the block nesting level of the node being written
	Depth int
	// MaxDepth stops the descent: a block at this depth is written as its
	// escaped plain text. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

// Nodes serializes top-level nodes and concatenates the result
func Nodes(nodes []richtext.Node) string {
	return NodesDepth(nodes, DefaultMaxDepth)
}

// NodesDepth is Nodes with an explicit nesting limit
func NodesDepth(nodes []richtext.Node, maxDepth int) string {
	var b strings.Builder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		b.WriteString(Serialize(n, Options{MaxDepth: maxDepth}))
	}
	return b.String()
}

// Serialize writes a single node. The node itself is never modified.
func Serialize(n richtext.Node, opts Options) string {
	switch n := n.(type) {
	case *richtext.Leaf:
		return leaf(n, opts)
	case *richtext.Block:
		return block(n, opts)
	}
	return ""
}

func leaf(l *richtext.Leaf, opts Options) string {
	if !opts.IgnoreParagraphNewline && l.ParentKind == richtext.KindParagraph &&
		(l.Text == "" || l.Text == "\n") {
		return BreakTag + "\n"
	}
	if l.Text == "" {
		return ""
	}

	s := l.Text
	switch {
	case l.Bold && l.Italic:
		s = markup.Wrap(s, "***")
	case l.Bold:
		s = markup.Wrap(s, "**")
	case l.Italic:
		s = markup.Wrap(s, "*")
	}
	if l.Code {
		s = "`" + s + "`"
	}
	if l.Strikethrough {
		s = "~~" + s + "~~"
	}
	return s
}

func block(b *richtext.Block, opts Options) string {
	if opts.Depth >= opts.maxDepth() {
		return html.EscapeString(flatText(b))
	}

	switch b.Kind {
	case richtext.KindCitation:
		return citation.Render(b.CitationItems)
	case richtext.KindFootnote:
		return footnote(b, opts)
	}

	selfIsList := b.Kind.IsList()
	hasLink := false
	for _, c := range b.Children {
		if cb, ok := c.(*richtext.Block); ok && cb.Kind == richtext.KindLink {
			hasLink = true
			break
		}
	}

	var sb strings.Builder
	for _, c := range b.Children {
		if c == nil {
			continue
		}
		childIsList := false
		childBreak := false
		if cb, ok := c.(*richtext.Block); ok {
			childIsList = cb.Kind.IsList()
			childBreak = cb.BreakHint
		}

		childOpts := Options{
			IgnoreParagraphNewline: (opts.IgnoreParagraphNewline || childIsList || selfIsList || hasLink) && !childBreak,
			ListDepth:              opts.ListDepth,
			Depth:                  opts.Depth + 1,
			MaxDepth:               opts.MaxDepth,
		}
		if childIsList {
			childOpts.ListDepth++
		}
		sb.WriteString(Serialize(withParent(c, b.Kind), childOpts))
	}

	children := sb.String()
	if children == "" {
		return ""
	}

	if level, ok := b.Kind.HeadingLevel(); ok {
		return strings.Repeat("#", level) + " " + children + "\n"
	}

	switch b.Kind {
	case richtext.KindParagraph:
		return children + "\n"

	case richtext.KindCode:
		return "```" + b.Lang + "\n" + strings.TrimSuffix(children, "\n") + "\n```\n"

	case richtext.KindBlockquote:
		return markup.PrefixLines(strings.TrimSuffix(children, "\n"), "> ", ">") + "\n"

	case richtext.KindBulletedList, richtext.KindNumberedList:
		if b.ParentKind == richtext.KindListItem {
			return children
		}
		return "\n" + children + "\n"

	case richtext.KindListItem:
		if b.ParentKind == richtext.KindNumberedList {
			return strings.Repeat("   ", opts.ListDepth) + "1. " + children
		}
		return strings.Repeat("  ", opts.ListDepth) + "- " + children

	case richtext.KindLink:
		return "[" + children + "](" + b.URL + ")"
	}

	return html.EscapeString(children)
}

// footnote renders a footnote block as an inline note
func footnote(b *richtext.Block, opts Options) string {
	contentOpts := Options{
		IgnoreParagraphNewline: true,
		Depth:                  opts.Depth + 1,
		MaxDepth:               opts.MaxDepth,
	}
	var sb strings.Builder
	for _, c := range b.Content {
		if c == nil {
			continue
		}
		sb.WriteString(Serialize(withParent(c, b.Kind), contentOpts))
	}
	body := strings.TrimSpace(sb.String())
	if body == "" {
		return ""
	}
	return "^[" + strings.ReplaceAll(body, "\n", " ") + "]"
}

// flatText joins the leaf text under b without recursing
func flatText(b *richtext.Block) string {
	var sb strings.Builder
	stack := []richtext.Node{b}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := n.(type) {
		case *richtext.Leaf:
			sb.WriteString(n.Text)
		case *richtext.Block:
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
	return sb.String()
}

// withParent returns a shallow copy of n tagged with its parent kind
func withParent(n richtext.Node, parent richtext.Kind) richtext.Node {
	switch n := n.(type) {
	case *richtext.Leaf:
		cp := *n
		cp.ParentKind = parent
		return &cp
	case *richtext.Block:
		cp := *n
		cp.ParentKind = parent
		return &cp
	}
	return n
}
