package mdast

import (
	"strconv"
	"strings"

	"github.com/gerunddev/mdslate/internal/markup"
)

// Handler renders a node of one kind. It may call back into the
// Stringifier for the node's children.
type Handler func(n *Node, s *Stringifier) (string, error)

// StringifyOption configures a Stringifier
type StringifyOption func(*Stringifier)

// WithHandler registers h for kind, replacing any built-in rule
func WithHandler(kind Kind, h Handler) StringifyOption {
	return func(s *Stringifier) {
		s.handlers[kind] = h
	}
}

// Stringifier prints a syntax tree as Markdown text
type Stringifier struct {
	handlers map[Kind]Handler
}

// NewStringifier creates a stringifier with the built-in rules
func NewStringifier(opts ...StringifyOption) *Stringifier {
	s := &Stringifier{handlers: make(map[Kind]Handler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stringify prints root. A document ends with a single newline.
func (s *Stringifier) Stringify(root *Node) (string, error) {
	out, err := s.Node(root)
	if err != nil {
		return "", err
	}
	if root.Kind == KindDocument && out != "" {
		out = strings.TrimRight(out, "\n") + "\n"
	}
	return out, nil
}

// Node prints a single node
func (s *Stringifier) Node(n *Node) (string, error) {
	if h, ok := s.handlers[n.Kind]; ok {
		return h(n, s)
	}

	switch n.Kind {
	case KindDocument:
		return s.Blocks(n.Children, "\n\n")

	case KindParagraph:
		return s.Inline(n.Children)

	case KindHeading:
		content, err := s.Inline(n.Children)
		if err != nil {
			return "", err
		}
		depth := min(max(n.Depth, 1), 6)
		return strings.Repeat("#", depth) + " " + strings.ReplaceAll(content, "\n", " "), nil

	case KindThematicBreak:
		return "***", nil

	case KindBlockquote:
		content, err := s.Blocks(n.Children, "\n\n")
		if err != nil {
			return "", err
		}
		return markup.PrefixLines(content, "> ", ">"), nil

	case KindList:
		return s.list(n)

	case KindListItem:
		return s.listItem(n, "-", false)

	case KindCode:
		fence := strings.Repeat("`", max(3, longestRun(n.Value, '`')+1))
		return fence + n.Lang + "\n" + n.Value + "\n" + fence, nil

	case KindHTML:
		return n.Value, nil

	case KindText:
		return escapeText(n.Value, true), nil

	case KindEmphasis:
		// "_" does not open emphasis inside a word
		return s.wrapped(n, "*")

	case KindStrong:
		return s.wrapped(n, "**")

	case KindDelete:
		return s.wrapped(n, "~~")

	case KindInlineCode:
		return inlineCode(n.PlainText()), nil

	case KindBreak:
		return "\\\n", nil

	case KindLink:
		content, err := s.Inline(n.Children)
		if err != nil {
			return "", err
		}
		return "[" + content + "](" + destination(n.URL, n.Title) + ")", nil

	case KindImage:
		return "![" + escapeText(n.Value, false) + "](" + destination(n.URL, n.Title) + ")", nil

	case KindFootnoteReference:
		return "[^" + footnoteLabel(n) + "]", nil

	case KindFootnoteDefinition:
		content, err := s.Blocks(n.Children, "\n\n")
		if err != nil {
			return "", err
		}
		return "[^" + footnoteLabel(n) + "]: " + markup.IndentLines(content, "    "), nil

	case KindFootnote:
		content, err := s.Inline(n.Children)
		if err != nil {
			return "", err
		}
		return "^[" + content + "]", nil
	}

	return "", &UnhandledKindError{Kind: n.Kind}
}

// Blocks prints nodes as blocks joined by sep, skipping empty output
func (s *Stringifier) Blocks(nodes []*Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, c := range nodes {
		out, err := s.Node(c)
		if err != nil {
			return "", err
		}
		if out == "" {
			continue
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, sep), nil
}

// Inline prints nodes as phrasing content
func (s *Stringifier) Inline(nodes []*Node) (string, error) {
	var b strings.Builder
	for _, c := range nodes {
		if c.Kind == KindText {
			out := b.String()
			b.WriteString(escapeText(c.Value, out == "" || strings.HasSuffix(out, "\n")))
			continue
		}
		out, err := s.Node(c)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (s *Stringifier) wrapped(n *Node, marker string) (string, error) {
	content, err := s.Inline(n.Children)
	if err != nil {
		return "", err
	}
	return markup.Wrap(content, marker), nil
}

func (s *Stringifier) list(n *Node) (string, error) {
	start := 1
	if n.Start > 0 {
		start = n.Start
	}

	sep := "\n"
	if n.Spread {
		sep = "\n\n"
	}

	items := make([]string, 0, len(n.Children))
	for i, item := range n.Children {
		marker := "-"
		if n.Ordered {
			marker = strconv.Itoa(start+i) + "."
		}
		out, err := s.listItem(item, marker, n.Spread)
		if err != nil {
			return "", err
		}
		items = append(items, out)
	}
	return strings.Join(items, sep), nil
}

func (s *Stringifier) listItem(n *Node, marker string, spread bool) (string, error) {
	sep := "\n"
	if spread {
		sep = "\n\n"
	}
	content, err := s.Blocks(n.Children, sep)
	if err != nil {
		return "", err
	}
	if content == "" {
		return marker, nil
	}
	indent := strings.Repeat(" ", len(marker)+1)
	return marker + " " + markup.IndentLines(content, indent), nil
}

func inlineCode(value string) string {
	if value == "" {
		return ""
	}
	fence := strings.Repeat("`", longestRun(value, '`')+1)
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") ||
		(strings.HasPrefix(value, " ") && strings.HasSuffix(value, " ") && strings.TrimSpace(value) != "") {
		value = " " + value + " "
	}
	return fence + value + fence
}

func destination(url, title string) string {
	if url == "" || strings.ContainsAny(url, " ()") {
		url = "<" + url + ">"
	}
	if title == "" {
		return url
	}
	return url + " " + strconv.Quote(title)
}

func footnoteLabel(n *Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.Identifier
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

