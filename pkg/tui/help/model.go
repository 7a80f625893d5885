// Package help renders the key reference of the habit grid as markdown in a
// scrollable frame.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
)

//go:embed help.md
var helpMarkdown string

// Model is the help overlay.
type Model struct {
	viewport viewport.Model
	width    int
	height   int

	frame lipgloss.Style
	err   error
}

// New constructs a help overlay sized to the provided bounds.
func New(width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{
		viewport: vp,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
	}
	m.SetSize(width, height)
	return m
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

func (m *Model) View() string {
	body := m.viewport.View()
	if m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body)
}

// SetSize resizes the overlay and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 32), max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height

	inner := max(width-m.frame.GetHorizontalFrameSize(), 1)
	m.viewport.SetWidth(inner)
	m.viewport.SetHeight(max(height-m.frame.GetVerticalFrameSize(), 1))
	m.render(inner)
}

func (m *Model) render(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		m.err = err
		return
	}
	content, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.viewport.SetContent(plain(content))
	m.viewport.SetYOffset(0)
}

// plain drops escape sequences so the frame style controls all color.
func plain(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
		case inSeq:
			inSeq = !ansi.IsTerminator(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
