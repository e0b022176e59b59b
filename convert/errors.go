package convert

import (
	"errors"
	"fmt"

	"github.com/gerunddev/mdslate/richtext"
)

// ErrDepthExceeded is returned when a tree nests deeper than the engine allows
var ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

// UnsupportedNodeKindError is returned when a rich-text block kind has no
// Markdown equivalent
type UnsupportedNodeKindError struct {
	Kind richtext.Kind
}

func (e *UnsupportedNodeKindError) Error() string {
	return fmt.Sprintf("unsupported node kind %q", e.Kind)
}

// UnresolvedFootnoteError reports a footnote reference without a definition
type UnresolvedFootnoteError struct {
	ID string
}

func (e *UnresolvedFootnoteError) Error() string {
	return fmt.Sprintf("footnote %q has no definition", e.ID)
}
