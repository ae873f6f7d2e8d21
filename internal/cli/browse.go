package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseModel is the bubbletea model of summarize --interactive: a list
// of refuted pairs with the refuting instances of the selected one.
type browseModel struct {
	h      *hierarchy.Hierarchy
	label  report.Labeler
	edges  []digraph.Edge
	cursor int
	offset int
	height int
}

func newBrowseModel(h *hierarchy.Hierarchy, label report.Labeler) browseModel {
	return browseModel{
		h:      h,
		label:  label,
		edges:  h.CounterexampleEdges(),
		height: 15,
	}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.edges)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "home", "g":
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		// Leave room for the title and the detail pane.
		m.height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Counterexamples · %s", m.h.Name())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.edges) == 0 {
		b.WriteString(StyleSuccess.Render("No counterexamples: every pair is confirmed."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.edges))
	for i := m.offset; i < end; i++ {
		e := m.edges[i]
		n := len(m.h.Counterexamples(e.From, e.To))
		line := fmt.Sprintf("%-40s %3d/%d", e.String(), n, m.h.Support(e.From, e.To))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.edges))))
	return b.String()
}

// detail describes the selected pair and its reverse.
func (m browseModel) detail() string {
	e := m.edges[m.cursor]
	var labels []string
	for _, inst := range m.h.Counterexamples(e.From, e.To) {
		labels = append(labels, m.label(inst))
	}
	reverse := m.h.Verdict(e.To, e.From)

	var b strings.Builder
	b.WriteString(StyleValue.Render(e.String()))
	b.WriteString(listDimStyle.Render("  refuted by "))
	b.WriteString(StyleError.Render(strings.Join(labels, ", ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s -> %s: %s", e.To, e.From, reverse)))
	return b.String()
}
