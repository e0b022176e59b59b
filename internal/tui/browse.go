package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/mdslate/internal/styles"
	"github.com/gerunddev/mdslate/richtext"
)

const previewWidth = 60

// BrowseData holds the top-level blocks of a document
type BrowseData struct {
	Name   string
	Blocks []BlockInfo
}

// BlockInfo describes one top-level rich-text node
type BlockInfo struct {
	Index    int
	Kind     richtext.Kind
	Preview  string
	Markdown string
	JSON     string
}

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

// NewBrowseData builds browse rows for nodes. render writes a single node
// back as Markdown; a failing render is shown in place of the Markdown.
func NewBrowseData(name string, nodes richtext.Nodes, render func([]richtext.Node) (string, error)) (*BrowseData, error) {
	data := &BrowseData{Name: name, Blocks: make([]BlockInfo, 0, len(nodes))}
	for i, n := range nodes {
		if n == nil {
			continue
		}
		raw, err := json.MarshalIndent(richtext.Nodes{n}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode block %d: %w", i, err)
		}

		md, err := render([]richtext.Node{n})
		if err != nil {
			md = "error: " + err.Error()
		}

		info := BlockInfo{
			Index:    i,
			Kind:     "text",
			Preview:  preview(n.PlainText()),
			Markdown: md,
			JSON:     string(raw),
		}
		if b, ok := n.(*richtext.Block); ok {
			info.Kind = b.Kind
		}
		data.Blocks = append(data.Blocks, info)
	}
	return data, nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > previewWidth {
		return string(r[:previewWidth-1]) + "…"
	}
	return s
}

type browseModel struct {
	spinner     spinner.Model
	table       table.Model
	viewport    viewport.Model
	load        func() (*BrowseData, error)
	data        *BrowseData
	err         error
	ready       bool
	showingItem bool
	showingJSON bool
	selected    *BlockInfo
	width       int
	height      int
}

// InitBrowseModel creates a new block browser model
func InitBrowseModel(load func() (*BrowseData, error)) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Kind", Width: 16},
		{Title: "Preview", Width: previewWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.ViewportStyle

	return browseModel{
		spinner:  s,
		table:    t,
		viewport: vp,
		load:     load,
	}
}

// RunBrowse starts the block browser
func RunBrowse(load func() (*BrowseData, error)) error {
	p := tea.NewProgram(InitBrowseModel(load), tea.WithInput(os.Stdin))
	_, err := p.Run()
	return err
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadData())
}

func (m browseModel) loadData() tea.Cmd {
	return func() tea.Msg {
		if m.load == nil {
			return BrowseMsg{Err: fmt.Errorf("nothing to browse")}
		}
		data, err := m.load()
		return BrowseMsg{Data: data, Err: err}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showingItem {
			switch msg.String() {
			case "q", "esc":
				m.showingItem = false
				return m, nil
			case "tab":
				m.showingJSON = !m.showingJSON
				m.setContent()
				return m, nil
			case "up", "k", "down", "j":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "enter", "d":
			if m.data != nil && len(m.data.Blocks) > 0 {
				idx := m.table.Cursor()
				if idx >= 0 && idx < len(m.data.Blocks) {
					m.selected = &m.data.Blocks[idx]
					m.showingItem = true
					m.showingJSON = false
					m.setContent()
				}
			}
			return m, nil
		}

	case BrowseMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Blocks))
			for _, b := range m.data.Blocks {
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", b.Index+1),
					string(b.Kind),
					b.Preview,
				})
			}
			m.table.SetRows(rows)
		}
		return m, nil
	}

	return m, nil
}

func (m *browseModel) setContent() {
	if m.selected == nil {
		return
	}
	if m.showingJSON {
		m.viewport.SetContent(m.selected.JSON)
	} else {
		m.viewport.SetContent(m.selected.Markdown)
	}
	m.viewport.GotoTop()
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mdslate Block Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
		return b.String()
	}

	if m.showingItem && m.selected != nil {
		view := "Markdown"
		if m.showingJSON {
			view = "JSON"
		}
		kind := lipgloss.NewStyle().Foreground(styles.KindColor(m.selected.Kind)).Render(string(m.selected.Kind))
		b.WriteString(labelStyle.Render(fmt.Sprintf("Block %d ", m.selected.Index+1)))
		b.WriteString(kind)
		b.WriteString(" ")
		b.WriteString(highlightStyle.Render(view))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • tab markdown/json • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("Document: "))
	b.WriteString(valueStyle.Render(m.data.Name))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  Blocks: %d", len(m.data.Blocks))))
	b.WriteString("\n\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter/d view • q quit"))
	b.WriteString("\n")

	return b.String()
}
