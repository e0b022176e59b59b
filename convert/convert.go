// Package convert translates between Markdown and the rich-text document
// model. Markdown is parsed into a generic syntax tree which the forward
// converter maps onto rich-text nodes; the reverse converter maps them back
// and the tree is printed as Markdown again.
package convert

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/inlinenote"
	"github.com/gerunddev/mdslate/mdast"
	"github.com/gerunddev/mdslate/richtext"
)

// DefaultMaxDepth bounds the nesting of converted trees
const DefaultMaxDepth = mdast.DefaultMaxDepth

type options struct {
	maxDepth        int
	strictFootnotes bool
	inlineNotes     bool
	logger          *log.Logger
}

// Option configures an Engine
type Option func(*options)

// WithMaxDepth sets the nesting limit for parsing and both converters
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithStrictFootnotes makes references without a definition an error
// instead of an empty footnote
func WithStrictFootnotes(strict bool) Option {
	return func(o *options) {
		o.strictFootnotes = strict
	}
}

// WithInlineNotes toggles recognition of ^[inline notes]
func WithInlineNotes(enabled bool) Option {
	return func(o *options) {
		o.inlineNotes = enabled
	}
}

// WithLogger sets the logger used for debug output about lossy conversions
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Engine converts between Markdown and rich text. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	opts        *options
	parser      *mdast.Parser
	stringifier *mdast.Stringifier
}

// New creates an engine
func New(opts ...Option) *Engine {
	o := &options{
		maxDepth:    DefaultMaxDepth,
		inlineNotes: true,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}

	extensions := []goldmark.Extender{citation.Extension}
	if o.inlineNotes {
		extensions = append(extensions, inlinenote.Extension)
	}

	return &Engine{
		opts: o,
		parser: mdast.NewParser(
			mdast.WithExtensions(extensions...),
			mdast.WithMaxDepth(o.maxDepth),
		),
		stringifier: mdast.NewStringifier(
			mdast.WithHandler(mdast.KindCitation, stringifyCitation),
		),
	}
}

func stringifyCitation(n *mdast.Node, _ *mdast.Stringifier) (string, error) {
	return citation.Render(n.CitationItems), nil
}

// MaxDepth returns the nesting limit of the engine
func (e *Engine) MaxDepth() int {
	return e.opts.maxDepth
}

// Parse parses Markdown into a generic syntax tree
func (e *Engine) Parse(source string) (*mdast.Node, error) {
	return e.parser.Parse([]byte(source))
}

// ParseMarkdown parses Markdown into rich-text nodes
func (e *Engine) ParseMarkdown(source string) (richtext.Nodes, error) {
	root, err := e.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}
	return e.FromMdast(root)
}

// Stringify prints a generic syntax tree as Markdown
func (e *Engine) Stringify(root *mdast.Node) (string, error) {
	return e.stringifier.Stringify(root)
}

// RenderMarkdown converts rich-text nodes to Markdown
func (e *Engine) RenderMarkdown(nodes []richtext.Node) (string, error) {
	root, err := e.ToMdast(nodes)
	if err != nil {
		return "", err
	}
	out, err := e.Stringify(root)
	if err != nil {
		return "", fmt.Errorf("failed to stringify markdown: %w", err)
	}
	return out, nil
}

var defaultEngine = New()

// ParseMarkdown parses Markdown into rich-text nodes with default options
func ParseMarkdown(source string) (richtext.Nodes, error) {
	return defaultEngine.ParseMarkdown(source)
}

// RenderMarkdown converts rich-text nodes to Markdown with default options
func RenderMarkdown(nodes []richtext.Node) (string, error) {
	return defaultEngine.RenderMarkdown(nodes)
}

// FromMdast converts a generic syntax tree with the given options
func FromMdast(root *mdast.Node, opts ...Option) (richtext.Nodes, error) {
	return New(opts...).FromMdast(root)
}

// ToMdast converts rich-text nodes to a generic syntax tree
func ToMdast(nodes []richtext.Node, opts ...Option) (*mdast.Node, error) {
	return New(opts...).ToMdast(nodes)
}
