package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/habits/pkg/render"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Grid   GridTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// GridTheme styles the habit by day table.
type GridTheme struct {
	Title      lipgloss.Style
	Day        lipgloss.Style
	Name       lipgloss.Style
	NameActive lipgloss.Style
	Idle       lipgloss.Style
	Done       lipgloss.Style
	Count      lipgloss.Style
	Empty      lipgloss.Style
}

// ModalTheme styles confirmation prompts.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Grid: GridTheme{
			Title:      lipgloss.NewStyle().Bold(true).Padding(0, 1),
			Day:        lipgloss.NewStyle().Bold(true),
			Name:       lipgloss.NewStyle(),
			NameActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Idle:       lipgloss.NewStyle().Foreground(lipgloss.Color(render.Idle.Hex())),
			Done:       lipgloss.NewStyle().Foreground(lipgloss.Color(render.OnAccent.Hex())).Bold(true),
			Count:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Empty:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 2),
			Title: lipgloss.NewStyle().Bold(true),
		},
	}
}

// Accent returns the foreground style for the header of day.
func (t Theme) Accent(day int) lipgloss.Style {
	return t.Grid.Day.Foreground(lipgloss.Color(render.Accent(day).Hex()))
}

// Cell returns the background style for a completed cell on day.
func (t Theme) Cell(day int) lipgloss.Style {
	return t.Grid.Done.Background(lipgloss.Color(render.Accent(day).Hex()))
}
