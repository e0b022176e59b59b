package convert

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/gerunddev/mdslate/citation"
	"github.com/gerunddev/mdslate/mdast"
	"github.com/gerunddev/mdslate/richtext"
)

func leaf(text string) *richtext.Leaf {
	return richtext.NewLeaf(text)
}

func block(kind richtext.Kind, children ...richtext.Node) *richtext.Block {
	return richtext.NewBlock(kind, children...)
}

func footnoteBlock(content ...richtext.Node) *richtext.Block {
	return &richtext.Block{
		Kind:     richtext.KindFootnote,
		Children: richtext.EmptyChildren(),
		Content:  richtext.Nodes(content),
	}
}

func assertNodes(t *testing.T, got, want richtext.Nodes) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		a, _ := json.MarshalIndent(got, "", "  ")
		b, _ := json.MarshalIndent(want, "", "  ")
		t.Errorf("nodes mismatch\ngot:\n%s\nwant:\n%s", a, b)
	}
}

func doc(children ...*mdast.Node) *mdast.Node {
	return mdast.Parent(mdast.KindDocument, children...)
}

func TestFromMdastBlocks(t *testing.T) {
	tests := []struct {
		name string
		root *mdast.Node
		want richtext.Nodes
	}{
		{
			name: "heading levels",
			root: doc(
				&mdast.Node{Kind: mdast.KindHeading, Depth: 3, Children: []*mdast.Node{mdast.Text("h")}},
				&mdast.Node{Kind: mdast.KindHeading, Depth: 9, Children: []*mdast.Node{mdast.Text("deep")}},
			),
			want: richtext.Nodes{
				block(richtext.KindHeadingThree, leaf("h")),
				block(richtext.KindHeadingSix, leaf("deep")),
			},
		},
		{
			name: "lists",
			root: doc(
				&mdast.Node{Kind: mdast.KindList, Ordered: true, Children: []*mdast.Node{
					mdast.Parent(mdast.KindListItem, mdast.Parent(mdast.KindParagraph, mdast.Text("one"))),
				}},
				mdast.Parent(mdast.KindList,
					mdast.Parent(mdast.KindListItem, mdast.Parent(mdast.KindParagraph, mdast.Text("dot"))),
				),
			),
			want: richtext.Nodes{
				block(richtext.KindNumberedList, block(richtext.KindListItem, block(richtext.KindParagraph, leaf("one")))),
				block(richtext.KindBulletedList, block(richtext.KindListItem, block(richtext.KindParagraph, leaf("dot")))),
			},
		},
		{
			name: "link and blockquote",
			root: doc(mdast.Parent(mdast.KindBlockquote, mdast.Parent(mdast.KindParagraph,
				&mdast.Node{Kind: mdast.KindLink, URL: "https://example.com", Children: []*mdast.Node{mdast.Text("site")}},
			))),
			want: richtext.Nodes{
				block(richtext.KindBlockquote, block(richtext.KindParagraph,
					&richtext.Block{Kind: richtext.KindLink, URL: "https://example.com", Children: richtext.Nodes{leaf("site")}},
				)),
			},
		},
		{
			name: "childless paragraph gets an empty leaf",
			root: doc(mdast.Parent(mdast.KindParagraph)),
			want: richtext.Nodes{block(richtext.KindParagraph, leaf(""))},
		},
		{
			name: "code block",
			root: doc(&mdast.Node{Kind: mdast.KindCode, Lang: "go", Value: "x := 1"}),
			want: richtext.Nodes{
				&richtext.Block{Kind: richtext.KindCode, Lang: "go", Children: richtext.Nodes{leaf("x := 1")}},
			},
		},
		{
			name: "citation",
			root: doc(mdast.Parent(mdast.KindParagraph,
				&mdast.Node{Kind: mdast.KindCitation, CitationItems: []citation.Item{{ID: "doe"}}},
			)),
			want: richtext.Nodes{block(richtext.KindParagraph, &richtext.Block{
				Kind:          richtext.KindCitation,
				CitationItems: []citation.Item{{ID: "doe"}},
				Children:      richtext.EmptyChildren(),
			})},
		},
		{
			name: "break tag html",
			root: doc(mdast.Parent(mdast.KindParagraph,
				mdast.Text("a"),
				&mdast.Node{Kind: mdast.KindHTML, Value: "<br/>"},
			)),
			want: richtext.Nodes{block(richtext.KindParagraph,
				leaf("a"),
				&richtext.Block{Kind: richtext.KindParagraph, BreakHint: true, Children: richtext.Nodes{leaf("")}},
			)},
		},
		{
			name: "other html is dropped",
			root: doc(&mdast.Node{Kind: mdast.KindHTML, Value: "<div>x</div>"}),
			want: richtext.Nodes{block(richtext.KindParagraph, leaf(""))},
		},
		{
			name: "unrecognized kinds keep their value",
			root: doc(mdast.Parent(mdast.KindParagraph,
				&mdast.Node{Kind: mdast.KindImage, URL: "a.png", Value: "alt"},
				&mdast.Node{Kind: mdast.KindUnknown, Value: "raw"},
			), &mdast.Node{Kind: mdast.KindThematicBreak}),
			want: richtext.Nodes{
				block(richtext.KindParagraph, leaf("alt"), leaf("raw")),
				leaf(""),
			},
		},
		{
			name: "break becomes newline leaf",
			root: doc(mdast.Parent(mdast.KindParagraph, mdast.Text("a"), &mdast.Node{Kind: mdast.KindBreak}, mdast.Text("b"))),
			want: richtext.Nodes{block(richtext.KindParagraph, leaf("a"), leaf("\n"), leaf("b"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMdast(tt.root)
			if err != nil {
				t.Fatalf("FromMdast failed: %v", err)
			}
			assertNodes(t, got, tt.want)
		})
	}
}

func TestFromMdastCoalescesFormatting(t *testing.T) {
	root := doc(mdast.Parent(mdast.KindParagraph,
		mdast.Parent(mdast.KindStrong, mdast.Parent(mdast.KindEmphasis, mdast.Text("both"))),
		mdast.Text(" "),
		mdast.Parent(mdast.KindStrong,
			mdast.Text("a"),
			mdast.Parent(mdast.KindDelete, mdast.Text("b")),
			&mdast.Node{Kind: mdast.KindLink, URL: "u", Children: []*mdast.Node{mdast.Text("c")}},
		),
		mdast.Parent(mdast.KindInlineCode, mdast.Text("x")),
		&mdast.Node{Kind: mdast.KindInlineCode, Value: "y"},
	))

	got, err := FromMdast(root)
	if err != nil {
		t.Fatalf("FromMdast failed: %v", err)
	}

	want := richtext.Nodes{block(richtext.KindParagraph,
		&richtext.Leaf{Text: "both", Formats: richtext.Formats{Bold: true, Italic: true}},
		leaf(" "),
		&richtext.Leaf{Text: "abc", Formats: richtext.Formats{Bold: true, Strikethrough: true}},
		&richtext.Leaf{Text: "x", Formats: richtext.Formats{Code: true}},
		&richtext.Leaf{Text: "y", Formats: richtext.Formats{Code: true}},
	)}
	assertNodes(t, got, want)
}

func TestFromMdastFootnotes(t *testing.T) {
	note := []*mdast.Node{mdast.Parent(mdast.KindParagraph, mdast.Text("note"))}
	want := richtext.Nodes{block(richtext.KindParagraph,
		leaf("a"),
		footnoteBlock(block(richtext.KindParagraph, leaf("note"))),
	)}

	t.Run("definition after reference", func(t *testing.T) {
		got, err := FromMdast(doc(
			mdast.Parent(mdast.KindParagraph, mdast.Text("a"), &mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "n"}),
			&mdast.Node{Kind: mdast.KindFootnoteDefinition, Identifier: "n", Children: note},
		))
		if err != nil {
			t.Fatalf("FromMdast failed: %v", err)
		}
		assertNodes(t, got, want)
	})

	t.Run("definition before reference", func(t *testing.T) {
		got, err := FromMdast(doc(
			&mdast.Node{Kind: mdast.KindFootnoteDefinition, Identifier: "n", Children: note},
			mdast.Parent(mdast.KindParagraph, mdast.Text("a"), &mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "n"}),
		))
		if err != nil {
			t.Fatalf("FromMdast failed: %v", err)
		}
		assertNodes(t, got, want)
	})

	t.Run("empty definition keeps placeholder", func(t *testing.T) {
		got, err := FromMdast(doc(
			mdast.Parent(mdast.KindParagraph, mdast.Text("a"), &mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "n"}),
			&mdast.Node{Kind: mdast.KindFootnoteDefinition, Identifier: "n"},
		))
		if err != nil {
			t.Fatalf("FromMdast failed: %v", err)
		}
		assertNodes(t, got, richtext.Nodes{block(richtext.KindParagraph,
			leaf("a"),
			footnoteBlock(block(richtext.KindParagraph, leaf(""))),
		)})
	})

	t.Run("repeated reference", func(t *testing.T) {
		got, err := FromMdast(doc(
			mdast.Parent(mdast.KindParagraph,
				&mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "n"},
				&mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "n"},
			),
			&mdast.Node{Kind: mdast.KindFootnoteDefinition, Identifier: "n", Children: note},
		))
		if err != nil {
			t.Fatalf("FromMdast failed: %v", err)
		}
		para := got[0].(*richtext.Block)
		for i, c := range para.Children {
			if c.(*richtext.Block).Content.PlainText() != "note" {
				t.Errorf("reference %d was not resolved", i)
			}
		}
	})

	t.Run("orphan reference keeps placeholder", func(t *testing.T) {
		root := doc(mdast.Parent(mdast.KindParagraph, &mdast.Node{Kind: mdast.KindFootnoteReference, Identifier: "missing"}))
		got, err := FromMdast(root)
		if err != nil {
			t.Fatalf("FromMdast failed: %v", err)
		}
		assertNodes(t, got, richtext.Nodes{block(richtext.KindParagraph,
			footnoteBlock(block(richtext.KindParagraph, leaf(""))),
		)})

		_, err = FromMdast(root, WithStrictFootnotes(true))
		var unresolved *UnresolvedFootnoteError
		if !errors.As(err, &unresolved) || unresolved.ID != "missing" {
			t.Errorf("expected UnresolvedFootnoteError, got %v", err)
		}
	})
}

func TestFromMdastMaxDepth(t *testing.T) {
	root := doc(mdast.Parent(mdast.KindBlockquote,
		mdast.Parent(mdast.KindBlockquote, mdast.Parent(mdast.KindParagraph, mdast.Text("deep"))),
	))

	if _, err := FromMdast(root, WithMaxDepth(2)); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	if _, err := FromMdast(root, WithMaxDepth(4)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFromMdastNil(t *testing.T) {
	got, err := FromMdast(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("FromMdast(nil) = %v, %v", got, err)
	}
}
