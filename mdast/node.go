// Package mdast is a generic Markdown syntax tree: the shape a Markdown
// parser produces and a Markdown printer consumes.
package mdast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gerunddev/mdslate/citation"
)

// Kind is the type of a syntax node
type Kind string

const (
	KindDocument           Kind = "document"
	KindParagraph          Kind = "paragraph"
	KindHeading            Kind = "heading"
	KindThematicBreak      Kind = "thematicBreak"
	KindBlockquote         Kind = "blockquote"
	KindList               Kind = "list"
	KindListItem           Kind = "listItem"
	KindCode               Kind = "code"
	KindHTML               Kind = "html"
	KindText               Kind = "text"
	KindEmphasis           Kind = "emphasis"
	KindStrong             Kind = "strong"
	KindDelete             Kind = "delete"
	KindInlineCode         Kind = "inlineCode"
	KindBreak              Kind = "break"
	KindLink               Kind = "link"
	KindImage              Kind = "image"
	KindFootnote           Kind = "footnote"
	KindFootnoteReference  Kind = "footnoteReference"
	KindFootnoteDefinition Kind = "footnoteDefinition"
	KindCitation           Kind = "citation"
	KindUnknown            Kind = "unknown"
)

// DefaultMaxDepth bounds the nesting accepted by the parser adapter
const DefaultMaxDepth = 512

// ErrDepthExceeded is returned when a tree nests deeper than allowed
var ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

// Node is a syntax tree node. Only the fields relevant to its kind are set.
type Node struct {
	Kind     Kind    `json:"type"`
	Children []*Node `json:"children,omitempty"`

	// Value is the literal content of text, code, html and the alt text of images
	Value string `json:"value,omitempty"`

	Ordered bool `json:"ordered,omitempty"`
	Start   int  `json:"start,omitempty"`
	Spread  bool `json:"spread,omitempty"`

	// Depth is the heading level
	Depth int `json:"depth,omitempty"`

	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Lang  string `json:"lang,omitempty"`

	Identifier string `json:"identifier,omitempty"`
	Label      string `json:"label,omitempty"`

	CitationItems []citation.Item `json:"citationItems,omitempty"`
}

// Text creates a text node
func Text(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// Parent creates a node of the given kind with children
func Parent(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// PlainText returns the literal value of n, or the concatenated plain text
// of its children
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.Value
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.PlainText())
	}
	return b.String()
}

// UnhandledKindError is returned by the stringifier for kinds it has no rule for
type UnhandledKindError struct {
	Kind Kind
}

func (e *UnhandledKindError) Error() string {
	return fmt.Sprintf("cannot stringify node of kind %q", e.Kind)
}
