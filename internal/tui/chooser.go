// Package tui holds the interactive session chooser behind
// `cravat run --choose`.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

var (
	primaryColor = lipgloss.Color("#A78BFA") // Purple (violet-400)
	successColor = lipgloss.Color("#10B981") // Green
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	chosenStyle  = lipgloss.NewStyle().Foreground(successColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	helpKeyStyle = lipgloss.NewStyle().Foreground(primaryColor)
)

// item is one selectable session row.
type item struct {
	name   string
	doc    string
	chosen bool
}

// Model is the bubbletea model for the session chooser.
type Model struct {
	items    []item
	filtered []int // indexes into items, registry order
	cursor   int
	filter   textinput.Model
	width    int
	height   int
	quitting bool
	aborted  bool
}

// New builds a chooser over defs. Sessions that run by default start
// chosen, so confirming without touching anything runs the usual set.
func New(defs []*session.Definition) Model {
	ti := textinput.New()
	ti.Placeholder = "filter sessions"
	ti.Prompt = "/ "
	ti.CharLimit = 50
	ti.Width = 30
	ti.Focus()

	items := make([]item, len(defs))
	filtered := make([]int, len(defs))
	for i, def := range defs {
		items[i] = item{name: def.Name, doc: def.Doc, chosen: def.Default}
		filtered[i] = i
	}

	return Model{items: items, filtered: filtered, filter: ti}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.quitting = true
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			if len(m.filtered) > 0 {
				idx := m.filtered[m.cursor]
				m.items[idx].chosen = !m.items[idx].chosen
			}
			return m, nil
		}

		// Everything else is filter input.
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

// applyFilter narrows the visible rows to names containing the filter
// text, keeping registry order.
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	filtered := make([]int, 0, len(m.items))
	for i, it := range m.items {
		if query == "" || strings.Contains(strings.ToLower(it.name), query) {
			filtered = append(filtered, i)
		}
	}
	m.filtered = filtered

	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Choose sessions"))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(mutedStyle.Render("  no sessions match"))
		b.WriteString("\n")
	}
	for pos, idx := range m.filtered {
		it := m.items[idx]

		cursor := "  "
		name := it.name
		if pos == m.cursor {
			cursor = cursorStyle.Render("> ")
			name = titleStyle.Render(name)
		}
		mark := "[ ]"
		if it.chosen {
			mark = chosenStyle.Render("[x]")
		}

		b.WriteString(fmt.Sprintf("%s%s %s", cursor, mark, name))
		if it.doc != "" {
			b.WriteString("  " + mutedStyle.Render(it.doc))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d chosen", m.chosenCount())))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHelp() string {
	return helpKeyStyle.Render("tab") + mutedStyle.Render(" toggle  ") +
		helpKeyStyle.Render("enter") + mutedStyle.Render(" run  ") +
		helpKeyStyle.Render("esc") + mutedStyle.Render(" cancel")
}

func (m Model) chosenCount() int {
	count := 0
	for _, it := range m.items {
		if it.chosen {
			count++
		}
	}
	return count
}

// Chosen returns the chosen session names in registry order. When
// nothing is chosen, the highlighted row wins.
func (m Model) Chosen() []string {
	var names []string
	for _, it := range m.items {
		if it.chosen {
			names = append(names, it.name)
		}
	}
	if len(names) == 0 && m.cursor < len(m.filtered) {
		names = append(names, m.items[m.filtered[m.cursor]].name)
	}
	return names
}

// Choose runs the interactive chooser over defs and returns the names
// of the sessions to run. Dismissing the chooser without confirming
// reports ErrInterrupted.
func Choose(defs []*session.Definition) ([]string, error) {
	p := tea.NewProgram(New(defs), tea.WithAltScreen())
	out, err := p.Run()
	if err != nil {
		return nil, errors.Wrap(err, "running chooser")
	}

	m, ok := out.(Model)
	if !ok || m.aborted {
		return nil, errors.ErrInterrupted
	}
	return m.Chosen(), nil
}
