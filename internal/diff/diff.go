package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/mdslate/convert"
	"github.com/gerunddev/mdslate/serialize"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatRendered renders diffs for the terminal with glamour (default)
	FormatRendered Format = iota
	// FormatPlain prints the unified diff as is
	FormatPlain
)

// Options control how a diff is rendered
type Options struct {
	Format   Format
	Style    string // glamour standard style, "auto" or empty picks one from the terminal
	WordWrap int
}

// Result is the outcome of a Markdown round trip
type Result struct {
	Name   string
	Input  string
	Output string
	Nodes  int
}

// Changed reports whether the round trip altered the document
func (r *Result) Changed() bool {
	return r.Input != r.Output
}

// Unified returns the unified diff from input to output, empty when the
// round trip is lossless
func (r *Result) Unified() string {
	return Unified(r.Name, r.Name+" (roundtrip)", r.Input, r.Output)
}

// Roundtrip parses source into rich text and writes it back as Markdown.
// With direct set the rich text is written by the direct serializer instead
// of going through the syntax tree.
func Roundtrip(engine *convert.Engine, name, source string, direct bool) (*Result, error) {
	nodes, err := engine.ParseMarkdown(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	var output string
	if direct {
		output = serialize.NodesDepth(nodes, engine.MaxDepth())
	} else {
		output, err = engine.RenderMarkdown(nodes)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", name, err)
		}
	}

	return &Result{
		Name:   name,
		Input:  source,
		Output: output,
		Nodes:  len(nodes),
	}, nil
}

// Unified creates a unified diff between two texts
func Unified(fromName, toName, from, to string) string {
	edits := myers.ComputeEdits(span.URIFromPath(fromName), from, to)
	u := gotextdiff.ToUnified(fromName, toName, from, edits)
	if len(u.Hunks) == 0 {
		return ""
	}
	return fmt.Sprint(u)
}

// Render formats a unified diff for display
func Render(unified string, opts Options) string {
	if unified == "" || opts.Format == FormatPlain {
		return unified
	}

	if !strings.HasSuffix(unified, "\n") {
		unified += "\n"
	}
	// Wrap in diff code fence for syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = 120
	}
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" && opts.Style != "auto" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown
	}

	return rendered
}
