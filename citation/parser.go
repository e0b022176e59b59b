package citation

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindCitation is the goldmark node kind of a parsed citation group.
var KindCitation = ast.NewNodeKind("Citation")

// Runs after the footnote parser (101) so [^id] keeps its meaning, and
// before the link parser (200) so [@key] is not taken as a link label.
const citationParserPriority = 150

// keyPunct may appear inside a citation key but never at its end.
const keyPunct = ":.#$%&-+?<>~/"

// Node is a citation group in a goldmark AST.
type Node struct {
	ast.BaseInline

	Items []Item
	// Bracketed is false for the inline "@key" form.
	Bracketed bool
}

// Kind returns the kind of this node.
func (n *Node) Kind() ast.NodeKind {
	return KindCitation
}

// Dump dumps the node for debugging.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Items":     fmt.Sprintf("%v", n.Items),
		"Bracketed": fmt.Sprintf("%v", n.Bracketed),
	}, nil)
}

type citationParser struct{}

func (p *citationParser) Trigger() []byte {
	return []byte{'[', '@'}
}

func (p *citationParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	prev := block.PrecendingCharacter()
	if prev == '\\' {
		return nil
	}

	switch line[0] {
	case '@':
		// Word characters before '@' mean an e-mail address or similar.
		if isWordRune(prev) {
			return nil
		}
		key := scanKey(line[1:])
		if key == "" {
			return nil
		}
		block.Advance(1 + len(key))
		return &Node{Items: []Item{{ID: key, AuthorOnly: true}}}

	case '[':
		end := bytes.IndexByte(line, ']')
		if end < 0 {
			return nil
		}
		inner := line[1:end]
		if bytes.IndexByte(inner, '[') >= 0 {
			return nil
		}
		// "[...](url)" and "[...][ref]" are links
		if end+1 < len(line) && (line[end+1] == '(' || line[end+1] == '[') {
			return nil
		}
		items, ok := ParseItems(string(inner))
		if !ok {
			return nil
		}
		block.Advance(end + 1)
		return &Node{Items: items, Bracketed: true}
	}
	return nil
}

// ParseItems parses the inside of a bracketed citation group such as
// "see -@doe p. 3; @roe". Every ';'-separated part must carry a key.
func ParseItems(s string) ([]Item, bool) {
	parts := strings.Split(s, ";")
	items := make([]Item, 0, len(parts))
	for _, part := range parts {
		item, ok := parseItem(part)
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, len(items) > 0
}

func parseItem(part string) (Item, bool) {
	at := -1
	for i := 0; i < len(part); i++ {
		if part[i] != '@' {
			continue
		}
		if i == 0 || part[i-1] == ' ' || part[i-1] == '-' {
			at = i
			break
		}
	}
	if at < 0 {
		return Item{}, false
	}

	key := scanKey([]byte(part[at+1:]))
	if key == "" {
		return Item{}, false
	}

	var item Item
	item.ID = key
	prefix := part[:at]
	if strings.HasSuffix(prefix, "-") {
		item.SuppressAuthor = true
		prefix = strings.TrimSuffix(prefix, "-")
	}
	item.Prefix = strings.TrimSpace(prefix)

	rest := strings.TrimSpace(part[at+1+len(key):])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ","))
	item.Locator = rest
	return item, true
}

// scanKey returns the citation key at the start of b, or "" if there is none.
func scanKey(b []byte) string {
	end := 0
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		switch {
		case isWordRune(r):
			i += size
			end = i
		case i > 0 && strings.ContainsRune(keyPunct, r):
			// internal punctuation only counts when a word character follows
			next, _ := utf8.DecodeRune(b[i+size:])
			if i+size >= len(b) || !isWordRune(next) {
				return string(b[:end])
			}
			i += size
		default:
			return string(b[:end])
		}
	}
	return string(b[:end])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type citationExtension struct{}

// Extension adds citation parsing to a goldmark parser.
var Extension = &citationExtension{}

// Extend registers the citation inline parser.
func (e *citationExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&citationParser{}, citationParserPriority),
		),
	)
}
