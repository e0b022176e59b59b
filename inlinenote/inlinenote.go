// Package inlinenote parses pandoc-style inline notes, "^[note body]", as
// goldmark inline nodes. Each note gets a generated footnote label so it can
// be handled like a regular footnote reference and definition pair.
package inlinenote

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindInlineNote is the goldmark node kind of an inline note.
var KindInlineNote = ast.NewNodeKind("InlineNote")

// LabelPrefix starts every generated note label.
const LabelPrefix = "inline-"

const noteParserPriority = 120

// Node is an inline note in a goldmark AST. The body is kept as source and
// parsed on its own by the consumer.
type Node struct {
	ast.BaseInline

	// Label is the footnote label generated for the note: "inline-abc12345"
	Label string
	// Body is the Markdown between the brackets, continuation lines
	// stripped of their indentation.
	Body []byte
}

// Kind returns the kind of this node.
func (n *Node) Kind() ast.NodeKind {
	return KindInlineNote
}

// Dump dumps the node for debugging.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label": n.Label,
		"Body":  string(n.Body),
	}, nil)
}

// NewLabel returns a fresh label for a note
func NewLabel() string {
	return fmt.Sprintf("%s%s", LabelPrefix, uuid.New().String()[:8])
}

type noteParser struct{}

func (p *noteParser) Trigger() []byte {
	return []byte{'^'}
}

func (p *noteParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[1] != '[' {
		return nil
	}

	l, pos := block.Position()
	block.Advance(2)
	segs, ok := block.FindClosure('[', ']', text.FindClosureOptions{
		CodeSpan: true,
		Nesting:  true,
		Newline:  true,
		Advance:  true,
	})
	if !ok {
		block.SetPosition(l, pos)
		return nil
	}

	var body []byte
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		value := seg.Value(block.Source())
		if i > 0 {
			value = util.TrimLeftSpace(value)
		}
		body = append(body, value...)
	}
	body = util.TrimRightSpace(util.TrimLeftSpace(body))

	return &Node{Label: NewLabel(), Body: body}
}

type noteExtension struct{}

// Extension adds inline note parsing to a goldmark parser.
var Extension = &noteExtension{}

// Extend registers the inline note parser.
func (e *noteExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&noteParser{}, noteParserPriority),
		),
	)
}
