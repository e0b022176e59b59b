package convert

import (
	"github.com/gerunddev/mdslate/richtext"
)

// FootnoteLinks collects footnote references and definitions seen during
// a single forward conversion
type FootnoteLinks struct {
	references  map[string][]*richtext.Block
	definitions map[string][]richtext.Node

	// first-seen order, for deterministic reporting
	refOrder []string
	defOrder []string

	resolved bool
}

// NewFootnoteLinks creates an empty link state
func NewFootnoteLinks() *FootnoteLinks {
	return &FootnoteLinks{
		references:  make(map[string][]*richtext.Block),
		definitions: make(map[string][]richtext.Node),
	}
}

// Reference registers a footnote placeholder for id
func (l *FootnoteLinks) Reference(id string, placeholder *richtext.Block) {
	if _, ok := l.references[id]; !ok {
		l.refOrder = append(l.refOrder, id)
	}
	l.references[id] = append(l.references[id], placeholder)
}

// Define registers the content of footnote id. A later definition wins.
func (l *FootnoteLinks) Define(id string, content []richtext.Node) {
	if _, ok := l.definitions[id]; !ok {
		l.defOrder = append(l.defOrder, id)
	}
	l.definitions[id] = content
}

// Resolve copies every definition into the placeholders that reference it.
// It returns the ids referenced without a definition and the ids defined
// but never referenced. Only the first call has an effect.
func (l *FootnoteLinks) Resolve() (orphans, unused []string) {
	if l.resolved {
		return nil, nil
	}
	l.resolved = true

	for _, id := range l.refOrder {
		content, ok := l.definitions[id]
		if !ok {
			orphans = append(orphans, id)
			continue
		}
		for _, ref := range l.references[id] {
			ref.Content = richtext.Nodes(content)
		}
	}

	for _, id := range l.defOrder {
		if _, ok := l.references[id]; !ok {
			unused = append(unused, id)
		}
	}
	return orphans, unused
}

// footnotePlaceholder is the footnote block emitted before its definition
// is known
func footnotePlaceholder() *richtext.Block {
	return &richtext.Block{
		Kind:     richtext.KindFootnote,
		Children: richtext.EmptyChildren(),
		Content: richtext.Nodes{
			richtext.NewBlock(richtext.KindParagraph, richtext.NewLeaf("")),
		},
	}
}
