package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const maxNameWidth = 20

// View renders the grid, the input or confirmation line and the status bar.
func (m Model) View() string {
	t := m.theme
	if m.mode == modeHelp && m.help != nil {
		return m.help.View() + "\n" + t.Footer.Help.Render("? or esc to close")
	}
	var b strings.Builder

	title := "No month"
	if m.grid.Month != "" {
		title = fmt.Sprintf("‹ %s %d ›", m.grid.Month.Month(), m.grid.Month.Year())
	}
	b.WriteString(t.Grid.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.gridView())

	switch m.mode {
	case modeInput:
		b.WriteString("\n\n")
		b.WriteString(t.Footer.Prompt.Render(label(m.action)))
		b.WriteString(m.input.View())
	case modeConfirm:
		b.WriteString("\n\n")
		b.WriteString(t.Modal.Frame.Render(t.Modal.Title.Render(m.status)))
	}

	status := t.Footer.Status.Render(m.status)
	if m.statusErr {
		status = t.Footer.Error.Render(m.status)
	}
	footer := lipgloss.JoinVertical(lipgloss.Left, status, t.Footer.Help.Render(helpText))
	return b.String() + "\n\n" + footer
}

func (m Model) gridView() string {
	t := m.theme
	if m.corrupt {
		return t.Grid.Empty.Render("The data for this month is damaged. Press D to delete it.")
	}
	if m.grid.Empty || m.grid.Month == "" {
		return t.Grid.Empty.Render("No data for this month. Press n to create it.")
	}
	if len(m.grid.Rows) == 0 {
		return t.Grid.Empty.Render("No habits. Press a to add one.")
	}

	names := make([]string, len(m.grid.Rows))
	width := 0
	for i, row := range m.grid.Rows {
		names[i] = truncate.StringWithTail(row.Name, maxNameWidth, "…")
		if w := ansi.PrintableRuneWidth(names[i]); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+3))
	for _, col := range m.grid.Columns {
		style := t.Accent(col.Day)
		if col.Day == m.col+1 {
			style = style.Reverse(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%2d ", col.Day)))
	}
	b.WriteString("\n")

	for i, row := range m.grid.Rows {
		marker, nameStyle := "  ", t.Grid.Name
		if i == m.row {
			marker, nameStyle = "› ", t.Grid.NameActive
		}
		pad := strings.Repeat(" ", width-ansi.PrintableRuneWidth(names[i]))
		b.WriteString(marker)
		b.WriteString(nameStyle.Render(names[i]))
		b.WriteString(pad + " ")
		for d, done := range row.Done {
			b.WriteString(m.cell(i, d, done))
		}
		b.WriteString(t.Grid.Count.Render(fmt.Sprintf(" %d/%d", m.grid.Count(i), m.grid.Days)))
		if i < len(m.grid.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) cell(row, d int, done bool) string {
	t := m.theme
	text, style := " · ", t.Grid.Idle
	if done {
		text, style = " x ", t.Cell(d+1)
	}
	if row == m.row && d == m.col {
		text = "[" + strings.TrimSpace(text) + "]"
		style = style.Reverse(true)
	}
	return style.Render(text)
}
