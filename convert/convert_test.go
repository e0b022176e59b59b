package convert

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/richtext"
)

// normalizeWhitespace trims trailing whitespace from every line
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// showDiff logs the first lines where expected and actual disagree
func showDiff(t *testing.T, expected, actual string) {
	t.Helper()
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	shown := 0
	for i := 0; i < max(len(expectedLines), len(actualLines)) && shown < 10; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			t.Logf("Line %d:\n  Expected: %q\n  Actual:   %q", i+1, e, a)
			shown++
		}
	}
}

func TestParseMarkdownHeadings(t *testing.T) {
	got, err := ParseMarkdown("# Heading 1\n\nparagraph 1\n\n## Heading 2\n\nparagraph 2\n")
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}

	want := richtext.Nodes{
		block(richtext.KindHeadingOne, leaf("Heading 1")),
		block(richtext.KindParagraph, leaf("paragraph 1")),
		block(richtext.KindHeadingTwo, leaf("Heading 2")),
		block(richtext.KindParagraph, leaf("paragraph 2")),
	}
	assertNodes(t, got, want)

	out, err := RenderMarkdown(got)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if out != "# Heading 1\n\nparagraph 1\n\n## Heading 2\n\nparagraph 2\n" {
		t.Errorf("unexpected markdown %q", out)
	}
}

func TestFootnoteRoundTrip(t *testing.T) {
	nodes, err := ParseMarkdown("Text[^n].\n\n[^n]: note body\n")
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected the definition to be folded into the paragraph, got %d nodes", len(nodes))
	}

	body, err := ParseMarkdown("note body")
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	para := nodes[0].(*richtext.Block)
	note, ok := para.Children[1].(*richtext.Block)
	if !ok || note.Kind != richtext.KindFootnote {
		t.Fatalf("expected footnote block, got %#v", para.Children[1])
	}
	assertNodes(t, note.Content, body)

	out, err := RenderMarkdown(nodes)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if want := "Text[^1].\n\n[^1]: note body\n"; out != want {
		t.Errorf("RenderMarkdown = %q, want %q", out, want)
	}
}

func TestCitations(t *testing.T) {
	source := "A paragraph with citation [@tchak] and an inline citation @tchak."
	nodes, err := ParseMarkdown(source)
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}

	var cites [][]citation.Item
	richtext.Walk(nodes, func(n richtext.Node) bool {
		if b, ok := n.(*richtext.Block); ok && b.Kind == richtext.KindCitation {
			cites = append(cites, b.CitationItems)
		}
		return true
	})
	want := [][]citation.Item{
		{{ID: "tchak"}},
		{{ID: "tchak", AuthorOnly: true}},
	}
	if !reflect.DeepEqual(cites, want) {
		t.Errorf("citations = %+v, want %+v", cites, want)
	}

	out, err := RenderMarkdown(nodes)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if out != source+"\n" {
		t.Errorf("RenderMarkdown = %q, want %q", out, source+"\n")
	}
}

func TestInlineNoteBecomesFootnote(t *testing.T) {
	nodes, err := ParseMarkdown("Text^[an inline note].")
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}

	want := richtext.Nodes{block(richtext.KindParagraph,
		leaf("Text"),
		footnoteBlock(block(richtext.KindParagraph, leaf("an inline note"))),
		leaf("."),
	)}
	assertNodes(t, nodes, want)

	out, err := RenderMarkdown(nodes)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if want := "Text[^1].\n\n[^1]: an inline note\n"; out != want {
		t.Errorf("RenderMarkdown = %q, want %q", out, want)
	}
}

func TestInlineNotesDisabled(t *testing.T) {
	nodes, err := New(WithInlineNotes(false)).ParseMarkdown("Text^[kept].")
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	if got := nodes.PlainText(); got != "Text^[kept]." {
		t.Errorf("PlainText = %q", got)
	}
}

func TestFormatUnionSurvivesRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		text    string
		formats richtext.Formats
	}{
		{"triple markers", "***x***", "x", richtext.Formats{Bold: true, Italic: true}},
		{"emphasis around strong", "_**x**_", "x", richtext.Formats{Bold: true, Italic: true}},
		{"strong around emphasis", "**_x_**", "x", richtext.Formats{Bold: true, Italic: true}},
		{"delete around both", "~~**_x_**~~", "x", richtext.Formats{Bold: true, Italic: true, Strikethrough: true}},
		{"code in strong", "**`x`**", "x", richtext.Formats{Bold: true, Code: true}},
		{"code in emphasis in delete", "~~*`x`*~~", "x", richtext.Formats{Italic: true, Strikethrough: true, Code: true}},
		{"mixed children", "*a **b** c*", "a b c", richtext.Formats{Bold: true, Italic: true}},
		{"inside a word", "un*believ*able", "believ", richtext.Formats{Italic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := ParseMarkdown(tt.source)
			if err != nil {
				t.Fatalf("ParseMarkdown failed: %v", err)
			}
			if !hasLeaf(first, tt.text, tt.formats) {
				t.Fatalf("no leaf %q with %+v in %q", tt.text, tt.formats, first.PlainText())
			}

			out := roundTrip(t, tt.source)
			second, err := ParseMarkdown(out)
			if err != nil {
				t.Fatalf("ParseMarkdown(%q) failed: %v", out, err)
			}
			assertNodes(t, second, first)

			if again := roundTrip(t, out); again != out {
				t.Errorf("render is not stable: %q then %q", out, again)
			}
		})
	}
}

func hasLeaf(nodes richtext.Nodes, text string, formats richtext.Formats) bool {
	found := false
	richtext.Walk(nodes, func(n richtext.Node) bool {
		if l, ok := n.(*richtext.Leaf); ok && l.Text == text && l.Formats == formats {
			found = true
		}
		return true
	})
	return found
}

func TestInlineNotesSkipCode(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"indented code", "para\n\n    code ^[not a note]\n", "para\n\n```\ncode ^[not a note]\n```\n"},
		{"fenced code", "```\nx^[y]\n```\n", "```\nx^[y]\n```\n"},
		{"code span", "Inline `x^[y]` code.", "Inline `x^[y]` code.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseMarkdown(tt.source)
			if err != nil {
				t.Fatalf("ParseMarkdown failed: %v", err)
			}
			richtext.Walk(nodes, func(n richtext.Node) bool {
				if b, ok := n.(*richtext.Block); ok && b.Kind == richtext.KindFootnote {
					t.Errorf("unexpected footnote in %q", nodes.PlainText())
				}
				return true
			})
			if out := roundTrip(t, tt.source); out != tt.want {
				t.Errorf("round trip = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestNestedInlineNotes(t *testing.T) {
	out := roundTrip(t, "A^[outer ^[inner]] and B^[*styled* note].")
	want := "A[^2] and B[^3].\n\n[^1]: inner\n\n[^2]: outer [^1]\n\n[^3]: *styled* note\n"
	if out != want {
		t.Errorf("round trip = %q, want %q", out, want)
		showDiff(t, want, out)
	}
}

func TestRenderMarkdownUnsupportedKind(t *testing.T) {
	_, err := RenderMarkdown(richtext.Nodes{block(richtext.Kind("table"), leaf("x"))})
	var unsupported *UnsupportedNodeKindError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected UnsupportedNodeKindError, got %v", err)
	}
}

func TestParseMarkdownDepthLimit(t *testing.T) {
	source := strings.Repeat("> ", 20) + "deep\n"
	if _, err := New(WithMaxDepth(5)).ParseMarkdown(source); err == nil {
		t.Error("expected depth error")
	}
	if _, err := New().ParseMarkdown(source); err != nil {
		t.Errorf("unexpected error with default depth: %v", err)
	}
}

func TestRoundTripSample(t *testing.T) {
	input, err := os.ReadFile(filepath.Join("testdata", "sample.md"))
	if err != nil {
		t.Fatalf("Failed to read input: %v", err)
	}
	golden, err := os.ReadFile(filepath.Join("testdata", "sample.golden.md"))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}

	first := roundTrip(t, string(input))
	if normalizeWhitespace(first) != normalizeWhitespace(string(golden)) {
		t.Error("first round trip does not match golden file")
		showDiff(t, string(golden), first)
	}

	second := roundTrip(t, first)
	if second != first {
		t.Error("round trip is not idempotent")
		showDiff(t, first, second)
	}
}

func roundTrip(t *testing.T, source string) string {
	t.Helper()
	nodes, err := ParseMarkdown(source)
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	out, err := RenderMarkdown(nodes)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	return out
}
