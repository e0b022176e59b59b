package mdast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/inlinenote"
)

// Parser turns Markdown source into a syntax tree using goldmark
type Parser struct {
	md       goldmark.Markdown
	maxDepth int
}

type parserConfig struct {
	extensions []goldmark.Extender
	maxDepth   int
}

// ParserOption configures a Parser
type ParserOption func(*parserConfig)

// WithExtensions adds goldmark extenders on top of footnotes and strikethrough
func WithExtensions(ext ...goldmark.Extender) ParserOption {
	return func(c *parserConfig) {
		c.extensions = append(c.extensions, ext...)
	}
}

// WithMaxDepth bounds the nesting of the produced tree
func WithMaxDepth(depth int) ParserOption {
	return func(c *parserConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// NewParser creates a parser. It is safe for concurrent use.
func NewParser(opts ...ParserOption) *Parser {
	cfg := parserConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	extensions := append([]goldmark.Extender{
		extension.Footnote,
		extension.Strikethrough,
	}, cfg.extensions...)

	return &Parser{
		md:       goldmark.New(goldmark.WithExtensions(extensions...)),
		maxDepth: cfg.maxDepth,
	}
}

// Parse parses source into a document node
func (p *Parser) Parse(source []byte) (*Node, error) {
	doc := p.md.Parser().Parse(text.NewReader(source))
	return fromGoldmark(p.md, doc, source, p.maxDepth)
}

// FromGoldmark converts a goldmark AST parsed from source. Inline note
// bodies found in it are parsed with footnotes, strikethrough, citations
// and inline notes enabled.
func FromGoldmark(doc ast.Node, source []byte) (*Node, error) {
	md := goldmark.New(goldmark.WithExtensions(
		extension.Footnote,
		extension.Strikethrough,
		citation.Extension,
		inlinenote.Extension,
	))
	return fromGoldmark(md, doc, source, DefaultMaxDepth)
}

func fromGoldmark(md goldmark.Markdown, doc ast.Node, source []byte, maxDepth int) (*Node, error) {
	a := newAdapter(md, source, maxDepth, new([]*Node))
	return a.document(doc)
}

type adapter struct {
	md       goldmark.Markdown
	source   []byte
	maxDepth int
	// footnote index -> label, footnote links only carry the index
	labels map[int]string
	// definitions generated for inline notes, shared with nested adapters
	notes *[]*Node
}

func newAdapter(md goldmark.Markdown, source []byte, maxDepth int, notes *[]*Node) *adapter {
	return &adapter{
		md:       md,
		source:   source,
		maxDepth: maxDepth,
		labels:   make(map[int]string),
		notes:    notes,
	}
}

func (a *adapter) collectLabels(doc ast.Node) {
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if list, ok := c.(*extast.FootnoteList); ok {
			for f := list.FirstChild(); f != nil; f = f.NextSibling() {
				if fn, ok := f.(*extast.Footnote); ok {
					a.labels[fn.Index] = string(fn.Ref)
				}
			}
		}
	}
}

func (a *adapter) document(doc ast.Node) (*Node, error) {
	a.collectLabels(doc)

	root := &Node{Kind: KindDocument}
	children, err := a.children(doc, 1)
	if err != nil {
		return nil, err
	}
	root.Children = append(children, *a.notes...)
	return root, nil
}

// inlineNote parses the body of n as its own document and queues it as a
// footnote definition labelled n.Label
func (a *adapter) inlineNote(n *inlinenote.Node, depth int) error {
	doc := a.md.Parser().Parse(text.NewReader(n.Body))
	sub := newAdapter(a.md, n.Body, a.maxDepth, a.notes)
	sub.collectLabels(doc)

	children, err := sub.children(doc, depth+1)
	if err != nil {
		return err
	}
	*a.notes = append(*a.notes, &Node{
		Kind:       KindFootnoteDefinition,
		Identifier: n.Label,
		Label:      n.Label,
		Children:   children,
	})
	return nil
}

func (a *adapter) children(n ast.Node, depth int) ([]*Node, error) {
	var out []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		nodes, err := a.convert(c, depth)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			// merge text split by line breaks and inline parsers
			if last := len(out) - 1; last >= 0 && node.Kind == KindText && out[last].Kind == KindText {
				out[last] = Text(out[last].Value + node.Value)
				continue
			}
			out = append(out, node)
		}
	}
	return out, nil
}

func (a *adapter) parent(node *Node, n ast.Node, depth int) ([]*Node, error) {
	children, err := a.children(n, depth+1)
	if err != nil {
		return nil, err
	}
	node.Children = children
	return []*Node{node}, nil
}

func (a *adapter) convert(n ast.Node, depth int) ([]*Node, error) {
	if depth > a.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", ErrDepthExceeded, a.maxDepth)
	}

	switch n := n.(type) {
	case *ast.Heading:
		return a.parent(&Node{Kind: KindHeading, Depth: n.Level}, n, depth)

	case *ast.Paragraph, *ast.TextBlock:
		return a.parent(&Node{Kind: KindParagraph}, n, depth)

	case *ast.Blockquote:
		return a.parent(&Node{Kind: KindBlockquote}, n, depth)

	case *ast.List:
		list := &Node{Kind: KindList, Ordered: n.IsOrdered(), Spread: !n.IsTight}
		if list.Ordered {
			list.Start = n.Start
		}
		return a.parent(list, n, depth)

	case *ast.ListItem:
		return a.parent(&Node{Kind: KindListItem}, n, depth)

	case *ast.ThematicBreak:
		return []*Node{{Kind: KindThematicBreak}}, nil

	case *ast.FencedCodeBlock:
		return []*Node{{
			Kind:  KindCode,
			Lang:  string(n.Language(a.source)),
			Value: strings.TrimSuffix(a.lines(n.Lines()), "\n"),
		}}, nil

	case *ast.CodeBlock:
		return []*Node{{Kind: KindCode, Value: strings.TrimSuffix(a.lines(n.Lines()), "\n")}}, nil

	case *ast.HTMLBlock:
		value := a.lines(n.Lines())
		if n.HasClosure() {
			value += string(n.ClosureLine.Value(a.source))
		}
		return []*Node{{Kind: KindHTML, Value: strings.TrimSuffix(value, "\n")}}, nil

	case *ast.RawHTML:
		return []*Node{{Kind: KindHTML, Value: a.lines(n.Segments)}}, nil

	case *ast.Text:
		value := n.Segment.Value(a.source)
		if !n.IsRaw() {
			value = unescape(value)
		}
		out := []*Node{Text(string(value))}
		switch {
		case n.HardLineBreak():
			out = append(out, &Node{Kind: KindBreak})
		case n.SoftLineBreak():
			out[0].Value += "\n"
		}
		return out, nil

	case *ast.String:
		return []*Node{Text(string(n.Value))}, nil

	case *ast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		return a.parent(&Node{Kind: kind}, n, depth)

	case *ast.CodeSpan:
		code := strings.ReplaceAll(a.raw(n), "\n", " ")
		return []*Node{Parent(KindInlineCode, Text(code))}, nil

	case *ast.Link:
		return a.parent(&Node{Kind: KindLink, URL: string(n.Destination), Title: string(n.Title)}, n, depth)

	case *ast.AutoLink:
		url := string(n.URL(a.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return []*Node{{Kind: KindLink, URL: url, Children: []*Node{Text(string(n.Label(a.source)))}}}, nil

	case *ast.Image:
		return []*Node{{Kind: KindImage, URL: string(n.Destination), Title: string(n.Title), Value: a.raw(n)}}, nil

	case *extast.Strikethrough:
		return a.parent(&Node{Kind: KindDelete}, n, depth)

	case *extast.FootnoteLink:
		id, ok := a.labels[n.Index]
		if !ok {
			id = strconv.Itoa(n.Index)
		}
		return []*Node{{Kind: KindFootnoteReference, Identifier: id, Label: id}}, nil

	case *extast.FootnoteBacklink:
		return nil, nil

	case *extast.FootnoteList:
		// flattened into sibling definitions
		var out []*Node
		for f := n.FirstChild(); f != nil; f = f.NextSibling() {
			nodes, err := a.convert(f, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil

	case *extast.Footnote:
		id := string(n.Ref)
		return a.parent(&Node{Kind: KindFootnoteDefinition, Identifier: id, Label: id}, n, depth)

	case *citation.Node:
		return []*Node{{Kind: KindCitation, CitationItems: append([]citation.Item(nil), n.Items...)}}, nil

	case *inlinenote.Node:
		if err := a.inlineNote(n, depth); err != nil {
			return nil, err
		}
		return []*Node{{Kind: KindFootnoteReference, Identifier: n.Label, Label: n.Label}}, nil
	}

	return []*Node{{Kind: KindUnknown, Value: a.raw(n)}}, nil
}

func (a *adapter) lines(segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(a.source))
	}
	return b.String()
}

// raw returns the source text of all text descendants of n
func (a *adapter) raw(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(a.source))
			if c.SoftLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func unescape(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}
