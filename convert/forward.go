package convert

import (
	"fmt"
	"regexp"

	"go.uber.org/multierr"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/mdast"
	"github.com/gerunddev/mdslate/richtext"
)

var breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// formatKinds are collapsed into a single formatted leaf
var formatKinds = map[mdast.Kind]richtext.Formats{
	mdast.KindEmphasis:   {Italic: true},
	mdast.KindStrong:     {Bold: true},
	mdast.KindDelete:     {Strikethrough: true},
	mdast.KindInlineCode: {Code: true},
}

type forward struct {
	opts  *options
	links *FootnoteLinks
}

// FromMdast converts a generic syntax tree into rich-text nodes. The
// children of a document root become the top-level nodes.
func (e *Engine) FromMdast(root *mdast.Node) (richtext.Nodes, error) {
	if root == nil {
		return richtext.Nodes{}, nil
	}

	f := &forward{opts: e.opts, links: NewFootnoteLinks()}

	top := []*mdast.Node{root}
	if root.Kind == mdast.KindDocument {
		top = root.Children
	}
	nodes, err := f.nodes(top, 1)
	if err != nil {
		return nil, err
	}

	orphans, unused := f.links.Resolve()
	if len(orphans) > 0 || len(unused) > 0 {
		e.opts.logger.Debug("footnotes not linked",
			"orphans", orphans,
			"unused", unused)
	}
	if e.opts.strictFootnotes && len(orphans) > 0 {
		var errs error
		for _, id := range orphans {
			errs = multierr.Append(errs, &UnresolvedFootnoteError{ID: id})
		}
		return nil, errs
	}

	return nodes, nil
}

func (f *forward) nodes(children []*mdast.Node, depth int) (richtext.Nodes, error) {
	out := make(richtext.Nodes, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		n, err := f.node(c, depth)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// children converts the children of n, a childless node gets one empty leaf
func (f *forward) children(n *mdast.Node, depth int) (richtext.Nodes, error) {
	out, err := f.nodes(n.Children, depth+1)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return richtext.EmptyChildren(), nil
	}
	return out, nil
}

func (f *forward) node(n *mdast.Node, depth int) (richtext.Node, error) {
	if depth > f.opts.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", ErrDepthExceeded, f.opts.maxDepth)
	}

	switch n.Kind {
	case mdast.KindText:
		return richtext.NewLeaf(n.Value), nil

	case mdast.KindBreak:
		return richtext.NewLeaf("\n"), nil

	case mdast.KindCode:
		return &richtext.Block{
			Kind:     richtext.KindCode,
			Lang:     n.Lang,
			Children: richtext.Nodes{richtext.NewLeaf(n.Value)},
		}, nil

	case mdast.KindHTML:
		return f.html(n), nil

	case mdast.KindCitation:
		return &richtext.Block{
			Kind:          richtext.KindCitation,
			CitationItems: append([]citation.Item(nil), n.CitationItems...),
			Children:      richtext.EmptyChildren(),
		}, nil

	case mdast.KindFootnoteReference:
		placeholder := footnotePlaceholder()
		f.links.Reference(n.Identifier, placeholder)
		return placeholder, nil

	case mdast.KindFootnoteDefinition:
		content, err := f.nodes(n.Children, depth+1)
		if err != nil {
			return nil, err
		}
		if len(content) == 0 {
			content = footnotePlaceholder().Content
		}
		f.links.Define(n.Identifier, content)
		return nil, nil
	}

	if own, ok := formatKinds[n.Kind]; ok {
		if len(n.Children) == 0 {
			return &richtext.Leaf{Text: n.Value, Formats: own}, nil
		}
		children, err := f.nodes(n.Children, depth+1)
		if err != nil {
			return nil, err
		}
		return coalesce(children, own), nil
	}

	kind, ok := blockKind(n)
	if !ok {
		f.opts.logger.Debug("unrecognized node kept as text", "kind", n.Kind)
		return richtext.NewLeaf(n.Value), nil
	}

	children, err := f.children(n, depth)
	if err != nil {
		return nil, err
	}

	switch kind {
	case richtext.KindLink:
		return &richtext.Block{Kind: kind, URL: n.URL, Children: children}, nil
	case richtext.KindFootnote:
		// inline note, the body is phrasing content
		return &richtext.Block{
			Kind:     kind,
			Children: richtext.EmptyChildren(),
			Content:  richtext.Nodes{richtext.NewBlock(richtext.KindParagraph, children...)},
		}, nil
	}
	return &richtext.Block{Kind: kind, Children: children}, nil
}

func (f *forward) html(n *mdast.Node) richtext.Node {
	if breakTag.MatchString(n.Value) {
		return &richtext.Block{
			Kind:      richtext.KindParagraph,
			BreakHint: true,
			Children:  richtext.Nodes{richtext.NewLeaf(breakTag.ReplaceAllString(n.Value, ""))},
		}
	}
	f.opts.logger.Debug("html dropped", "value", n.Value)
	return &richtext.Block{Kind: richtext.KindParagraph, Children: richtext.EmptyChildren()}
}

func blockKind(n *mdast.Node) (richtext.Kind, bool) {
	switch n.Kind {
	case mdast.KindHeading:
		return richtext.HeadingKind(n.Depth), true
	case mdast.KindList:
		if n.Ordered {
			return richtext.KindNumberedList, true
		}
		return richtext.KindBulletedList, true
	case mdast.KindListItem:
		return richtext.KindListItem, true
	case mdast.KindParagraph:
		return richtext.KindParagraph, true
	case mdast.KindLink:
		return richtext.KindLink, true
	case mdast.KindBlockquote:
		return richtext.KindBlockquote, true
	case mdast.KindFootnote:
		return richtext.KindFootnote, true
	}
	return "", false
}
