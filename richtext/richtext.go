// Package richtext defines the editable rich-text document model: blocks
// with children and text leaves carrying formatting flags.
package richtext

import (
	"strings"

	"github.com/gerunddev/mdslate/citation"
)

// Node is either a *Block or a *Leaf
type Node interface {
	isNode()
	// PlainText returns the concatenated text of all descendant leaves
	PlainText() string
}

// Block is an element with children
type Block struct {
	Kind     Kind  `json:"type"`
	Children Nodes `json:"children"`

	URL  string `json:"url,omitempty"`
	Lang string `json:"lang,omitempty"`

	// ParentKind is set by the serializer on the copies it recurses into
	ParentKind Kind `json:"parentType,omitempty"`

	CitationItems []citation.Item `json:"citationItems,omitempty"`

	// Content holds the body of a footnote block
	Content Nodes `json:"content,omitempty"`

	// BreakHint marks a paragraph that came from a line-break idiom
	BreakHint bool `json:"break,omitempty"`
}

// Formats are the formatting flags of a leaf
type Formats struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikeThrough,omitempty"`
	Code          bool `json:"code,omitempty"`
}

// Leaf is a run of text with uniform formatting
type Leaf struct {
	Text string `json:"text"`
	Formats

	ParentKind Kind `json:"parentType,omitempty"`
}

func (*Block) isNode() {}
func (*Leaf) isNode()  {}

// PlainText returns the text of the block's children
func (b *Block) PlainText() string {
	return b.Children.PlainText()
}

// PlainText returns the leaf text
func (l *Leaf) PlainText() string {
	return l.Text
}

// Union returns the flags set in either f or o
func (f Formats) Union(o Formats) Formats {
	return Formats{
		Bold:          f.Bold || o.Bold,
		Italic:        f.Italic || o.Italic,
		Strikethrough: f.Strikethrough || o.Strikethrough,
		Code:          f.Code || o.Code,
	}
}

// IsZero reports whether no flag is set
func (f Formats) IsZero() bool {
	return f == Formats{}
}

// NewLeaf creates an unformatted leaf
func NewLeaf(text string) *Leaf {
	return &Leaf{Text: text}
}

// NewBlock creates a block of the given kind
func NewBlock(kind Kind, children ...Node) *Block {
	return &Block{Kind: kind, Children: Nodes(children)}
}

// EmptyChildren is the children list of a block without content
func EmptyChildren() Nodes {
	return Nodes{NewLeaf("")}
}

// Nodes is an ordered list of rich-text nodes
type Nodes []Node

// PlainText concatenates the plain text of all nodes
func (ns Nodes) PlainText() string {
	var b strings.Builder
	for _, n := range ns {
		if n == nil {
			continue
		}
		b.WriteString(n.PlainText())
	}
	return b.String()
}

// Walk calls fn for every node in depth-first order, footnote content
// included. Returning false skips the node's descendants.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if n == nil || !fn(n) {
			continue
		}
		if b, ok := n.(*Block); ok {
			Walk(b.Children, fn)
			Walk(b.Content, fn)
		}
	}
}
