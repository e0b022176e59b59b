package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/mdslate/internal/styles"
)

var (
	titleStyle     = styles.TitleStyle
	labelStyle     = styles.LabelStyle
	valueStyle     = styles.ValueStyle
	tableStyle     = styles.TableStyle
	helpStyle      = styles.HelpStyle
	errorStyle     = styles.ErrorStyle
	highlightStyle = styles.HighlightStyle
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Magenta))
)
