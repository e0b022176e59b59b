package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/mdast"
	"github.com/gerunddev/mdslate/richtext"
)

type reverse struct {
	opts *options
	// footnote definitions in numbering order, appended to the document
	definitions []*mdast.Node
}

// ToMdast converts rich-text nodes into a generic syntax tree. Footnotes are
// renumbered from 1 in the order their content is completed. Any block kind
// without a Markdown equivalent fails the whole conversion.
func (e *Engine) ToMdast(nodes []richtext.Node) (*mdast.Node, error) {
	r := &reverse{opts: e.opts}

	children, err := r.nodes(nodes, 1)
	if err != nil {
		return nil, err
	}

	root := mdast.Parent(mdast.KindDocument, children...)
	root.Children = append(root.Children, r.definitions...)
	return root, nil
}

func (r *reverse) nodes(nodes []richtext.Node, depth int) ([]*mdast.Node, error) {
	out := make([]*mdast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		node, err := r.node(n, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (r *reverse) node(n richtext.Node, depth int) (*mdast.Node, error) {
	if depth > r.opts.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", ErrDepthExceeded, r.opts.maxDepth)
	}

	switch n := n.(type) {
	case *richtext.Leaf:
		return textNode(n), nil
	case *richtext.Block:
		return r.block(n, depth)
	}
	return nil, fmt.Errorf("unexpected rich text node %T", n)
}

// textNode wraps the leaf text in one node per flag, delete outermost
func textNode(l *richtext.Leaf) *mdast.Node {
	node := mdast.Text(l.Text)
	if l.Text == "" {
		return node
	}
	if l.Code {
		node = mdast.Parent(mdast.KindInlineCode, node)
	}
	if l.Bold {
		node = mdast.Parent(mdast.KindStrong, node)
	}
	if l.Italic {
		node = mdast.Parent(mdast.KindEmphasis, node)
	}
	if l.Strikethrough {
		node = mdast.Parent(mdast.KindDelete, node)
	}
	return node
}

func (r *reverse) block(b *richtext.Block, depth int) (*mdast.Node, error) {
	var node *mdast.Node
	switch {
	case b.Kind == richtext.KindCode:
		return &mdast.Node{Kind: mdast.KindCode, Lang: b.Lang, Value: b.PlainText()}, nil

	case b.Kind == richtext.KindCitation:
		return &mdast.Node{
			Kind:          mdast.KindCitation,
			CitationItems: append([]citation.Item(nil), b.CitationItems...),
		}, nil

	case b.Kind == richtext.KindParagraph && b.BreakHint:
		return &mdast.Node{Kind: mdast.KindHTML, Value: strings.TrimSpace(b.PlainText()) + "<br>"}, nil

	case b.Kind.IsHeading():
		level, _ := b.Kind.HeadingLevel()
		node = &mdast.Node{Kind: mdast.KindHeading, Depth: level}

	case b.Kind == richtext.KindNumberedList:
		node = &mdast.Node{Kind: mdast.KindList, Ordered: true}

	case b.Kind == richtext.KindBulletedList:
		node = &mdast.Node{Kind: mdast.KindList}

	case b.Kind == richtext.KindListItem:
		node = &mdast.Node{Kind: mdast.KindListItem}

	case b.Kind == richtext.KindParagraph:
		node = &mdast.Node{Kind: mdast.KindParagraph}

	case b.Kind == richtext.KindBlockquote:
		node = &mdast.Node{Kind: mdast.KindBlockquote}

	case b.Kind == richtext.KindLink:
		node = &mdast.Node{Kind: mdast.KindLink, URL: b.URL}

	case b.Kind == richtext.KindFootnote:
		node = &mdast.Node{Kind: mdast.KindFootnoteDefinition}

	default:
		return nil, &UnsupportedNodeKindError{Kind: b.Kind}
	}

	source := b.Children
	if len(b.Content) > 0 {
		source = b.Content
	}
	children, err := r.nodes(source, depth+1)
	if err != nil {
		return nil, err
	}
	node.Children = children

	if node.Kind == mdast.KindFootnoteDefinition {
		return r.footnote(node), nil
	}
	return node, nil
}

// footnote numbers def, queues it for the document and returns the reference
func (r *reverse) footnote(def *mdast.Node) *mdast.Node {
	id := strconv.Itoa(len(r.definitions) + 1)
	def.Identifier = id
	def.Label = id
	r.definitions = append(r.definitions, def)
	return &mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: id, Label: id}
}
