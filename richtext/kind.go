package richtext

// Kind names the type of a block
type Kind string

// Block kinds understood by the editor
const (
	KindParagraph    Kind = "paragraph"
	KindBlockquote   Kind = "blockquote"
	KindCode         Kind = "code"
	KindFootnote     Kind = "footnote"
	KindCitation     Kind = "citation"
	KindLink         Kind = "link"
	KindBulletedList Kind = "bulleted-list"
	KindNumberedList Kind = "numbered-list"
	KindListItem     Kind = "list-item"
	KindHeadingOne   Kind = "heading-one"
	KindHeadingTwo   Kind = "heading-two"
	KindHeadingThree Kind = "heading-three"
	KindHeadingFour  Kind = "heading-four"
	KindHeadingFive  Kind = "heading-five"
	KindHeadingSix   Kind = "heading-six"
)

var headingKinds = [...]Kind{
	KindHeadingOne,
	KindHeadingTwo,
	KindHeadingThree,
	KindHeadingFour,
	KindHeadingFive,
	KindHeadingSix,
}

// HeadingKind returns the heading kind for a level, clamped to 1..6
func HeadingKind(level int) Kind {
	level = min(max(level, 1), len(headingKinds))
	return headingKinds[level-1]
}

// HeadingLevel returns the level of a heading kind
func (k Kind) HeadingLevel() (int, bool) {
	for i, h := range headingKinds {
		if h == k {
			return i + 1, true
		}
	}
	return 0, false
}

// IsHeading reports whether k is one of the six heading kinds
func (k Kind) IsHeading() bool {
	_, ok := k.HeadingLevel()
	return ok
}

// IsList reports whether k is a list container kind
func (k Kind) IsList() bool {
	return k == KindBulletedList || k == KindNumberedList
}

// Known reports whether k belongs to the editor vocabulary
func (k Kind) Known() bool {
	switch k {
	case KindParagraph, KindBlockquote, KindCode, KindFootnote, KindCitation,
		KindLink, KindBulletedList, KindNumberedList, KindListItem:
		return true
	}
	return k.IsHeading()
}

func (k Kind) String() string {
	return string(k)
}
