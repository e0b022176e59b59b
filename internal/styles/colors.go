package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/mdslate/richtext"
)

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, danger
	Orange  = "#FC9867" // Warnings
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // Info
	Blue    = "#AB9DF2" // Links
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	// Table/viewport styles
	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	ViewportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(1)
)

// KindColor returns the accent color used for a rich-text block kind
func KindColor(kind richtext.Kind) lipgloss.Color {
	switch {
	case kind.IsHeading():
		return lipgloss.Color(Magenta)
	case kind.IsList(), kind == richtext.KindListItem:
		return lipgloss.Color(Cyan)
	case kind == richtext.KindCode:
		return lipgloss.Color(Green)
	case kind == richtext.KindBlockquote:
		return lipgloss.Color(Orange)
	case kind == richtext.KindLink, kind == richtext.KindCitation, kind == richtext.KindFootnote:
		return lipgloss.Color(Blue)
	case !kind.Known():
		return lipgloss.Color(Red)
	}
	return lipgloss.Color(Foreground)
}
