// Package grid is the Bubble Tea habit grid: one row per habit, one column per
// day of the month.
package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/render"
	"tableflip.dev/habits/pkg/store"
	"tableflip.dev/habits/pkg/tui/help"
	"tableflip.dev/habits/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeInput
	modeConfirm
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionNewMonth
	actionNewHabits
	actionAddHabit
	actionRenameHabit
	actionDeleteHabit
	actionDeleteMonth
)

const helpText = "←↓↑→ move · space toggle · [ ] month · n new · a add · r rename · x delete · D delete month · ? help · q quit"

// Model contains UI state.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	mode   mode
	action action
	theme  theme.Theme

	state   app.State
	grid    render.Result
	corrupt bool // active month is stored but can not be decoded

	row int
	col int // 0-based day

	input        textinput.Model
	help         *help.Model
	pendingMonth month.Key
	status       string
	statusErr    bool

	termWidth  int
	termHeight int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	return Model{
		svc:    svc,
		ctx:    context.Background(),
		mode:   modeNormal,
		action: actionNone,
		theme:  theme.Default(),
		input:  ti,
		status: helpText,
	}
}

// messages
type loadedMsg struct {
	state app.State
	grid  render.Result
	err   error
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// Init loads the active month and starts watching the store.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), startWatchCmd(m.ctx, m.svc))
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		st, res, err := m.load()
		return loadedMsg{state: st, grid: res, err: err}
	}
}

func (m Model) load() (app.State, render.Result, error) {
	if m.svc == nil {
		return app.State{}, render.Result{}, errors.New("no service")
	}
	st, err := m.svc.Open(m.ctx)
	if err != nil {
		return app.State{}, render.Result{}, err
	}
	res, err := m.svc.Project(m.ctx, st.Active.String())
	if err != nil {
		return st, render.Empty(st.Active), err
	}
	return st, res, nil
}

// reload refreshes the grid in place from the store.
func (m *Model) reload() {
	st, res, err := m.load()
	m.apply(st, res, err)
}

func (m *Model) apply(st app.State, res render.Result, err error) {
	if m.grid.Month != res.Month {
		m.row, m.col = 0, 0
	}
	m.state = st
	m.grid = res
	m.corrupt = errors.Is(err, app.ErrCorruptData)
	if err != nil {
		m.setError(err)
	}
	m.clamp()
}

func (m *Model) clamp() {
	if n := len(m.grid.Rows); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	if m.col >= m.grid.Days {
		m.col = m.grid.Days - 1
	}
	if m.col < 0 {
		m.col = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = app.Message(err)
	m.statusErr = true
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		if m.help != nil {
			m.help.SetSize(m.helpSize())
		}
	case loadedMsg:
		m.apply(msg.state, msg.grid, msg.err)
	case watchStartedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		m.reload()
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		switch m.mode {
		case modeInput:
			m.handleInputKey(msg, &cmds)
		case modeConfirm:
			m.handleConfirmKey(msg)
		case modeHelp:
			m.handleHelpKey(msg, &cmds)
		default:
			if m.handleNormalKey(msg, &cmds) {
				m.stopWatch()
				return m, tea.Quit
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// handleNormalKey reports whether the program should quit.
func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	case "?":
		if m.help == nil {
			m.help = help.New(m.helpSize())
		}
		m.mode = modeHelp
	case "up", "k":
		m.row--
		m.clamp()
	case "down", "j":
		m.row++
		m.clamp()
	case "left", "h":
		m.col--
		m.clamp()
	case "right", "l":
		m.col++
		m.clamp()
	case "home", "0":
		m.col = 0
	case "end", "$":
		m.col = m.grid.Days - 1
		m.clamp()
	case "space", " ", "enter":
		m.toggle()
	case "[":
		m.stepMonth(-1)
	case "]":
		m.stepMonth(1)
	case "n":
		m.beginInput(actionNewMonth, m.suggestMonth().String(), cmds)
	case "a":
		if m.grid.Empty {
			m.setError(app.ErrNoSuchMonth)
			break
		}
		m.beginInput(actionAddHabit, "", cmds)
	case "r":
		if name, ok := m.currentHabit(); ok {
			m.beginInput(actionRenameHabit, name, cmds)
		}
	case "x":
		if name, ok := m.currentHabit(); ok {
			m.beginConfirm(actionDeleteHabit, fmt.Sprintf("Delete %q and its history? (y/n)", name))
		}
	case "D":
		if !m.grid.Empty || m.corrupt {
			m.beginConfirm(actionDeleteMonth, fmt.Sprintf("Delete all data for %s %d? (y/n)", m.grid.Month.Month(), m.grid.Month.Year()))
		}
	}
	return false
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit(strings.TrimSpace(m.input.Value()), cmds)
	case "esc":
		m.endInput()
		m.setStatus("Cancelled")
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "y", "Y":
		act := m.action
		m.mode = modeNormal
		m.action = actionNone
		m.confirm(act)
	case "n", "N", "esc", "q":
		m.mode = modeNormal
		m.action = actionNone
		m.setStatus("Cancelled")
	}
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.mode = modeNormal
	default:
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) helpSize() (int, int) {
	w, h := m.termWidth, m.termHeight-2
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

func (m *Model) currentHabit() (string, bool) {
	if m.grid.Empty || m.row < 0 || m.row >= len(m.grid.Rows) {
		return "", false
	}
	return m.grid.Rows[m.row].Name, true
}

func (m *Model) toggle() {
	if _, ok := m.currentHabit(); !ok {
		return
	}
	day := m.col + 1
	done, err := m.svc.ToggleDay(m.ctx, m.grid.Month.String(), m.row, day)
	if err != nil {
		m.setError(err)
		return
	}
	m.reload()
	state := "not done"
	if done {
		state = "done"
	}
	m.setStatus(fmt.Sprintf("%s on %d %s: %s", m.grid.Rows[m.row].Name, day, m.grid.Month.Month(), state))
}

// stepMonth moves to the nearest stored month before (dir < 0) or after the
// displayed one.
func (m *Model) stepMonth(dir int) {
	cur := m.grid.Month
	var target month.Key
	for _, k := range m.state.Months {
		if dir < 0 && k < cur {
			target = k
		}
		if dir > 0 && k > cur {
			target = k
			break
		}
	}
	if target == "" {
		if dir < 0 {
			m.setStatus("No earlier month")
		} else {
			m.setStatus("No later month")
		}
		return
	}
	if err := m.svc.SwitchMonth(m.ctx, target.String()); err != nil {
		m.setError(err)
		return
	}
	m.reload()
	m.setStatus(fmt.Sprintf("%s %d", target.Month(), target.Year()))
}

// suggestMonth proposes the displayed month when it has no record, otherwise
// the month after the latest stored one.
func (m *Model) suggestMonth() month.Key {
	if m.grid.Empty && m.grid.Month != "" {
		return m.grid.Month
	}
	if n := len(m.state.Months); n > 0 {
		return m.state.Months[n-1].Next()
	}
	return m.grid.Month.Next()
}

func (m *Model) beginInput(act action, value string, cmds *[]tea.Cmd) {
	m.mode = modeInput
	m.action = act
	m.input.Reset()
	m.input.Placeholder = placeholder(act)
	m.input.SetValue(value)
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) endInput() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) beginConfirm(act action, question string) {
	m.mode = modeConfirm
	m.action = act
	m.setStatus(question)
}

func placeholder(act action) string {
	switch act {
	case actionNewMonth:
		return "YYYY-MM"
	case actionNewHabits:
		return "Run, Read, Meditate"
	case actionAddHabit:
		return "Habit name"
	case actionRenameHabit:
		return "New name"
	}
	return ""
}

func label(act action) string {
	switch act {
	case actionNewMonth:
		return "New month: "
	case actionNewHabits:
		return "Habits (comma separated): "
	case actionAddHabit:
		return "Add habit: "
	case actionRenameHabit:
		return "Rename: "
	}
	return ""
}

func (m *Model) submit(value string, cmds *[]tea.Cmd) {
	switch m.action {
	case actionNewMonth:
		key, err := month.Parse(value)
		if err != nil {
			m.setError(err)
			return
		}
		if _, err := m.svc.Record(m.ctx, key.String()); !errors.Is(err, app.ErrNoSuchMonth) {
			if err == nil {
				err = app.ErrDuplicateMonth
			}
			m.setError(err)
			return
		}
		m.pendingMonth = key
		m.beginInput(actionNewHabits, "", cmds)
		m.setStatus(fmt.Sprintf("Habits for %s %d", key.Month(), key.Year()))
		return
	case actionNewHabits:
		key := m.pendingMonth
		m.endInput()
		if _, err := m.svc.CreateMonth(m.ctx, key.String(), value); err != nil {
			m.setError(err)
			return
		}
		m.pendingMonth = ""
		m.reload()
		m.setStatus(fmt.Sprintf("Created %s %d", key.Month(), key.Year()))
	case actionAddHabit:
		m.endInput()
		rec, err := m.svc.AddHabit(m.ctx, m.grid.Month.String(), value)
		if err != nil {
			m.setError(err)
			return
		}
		m.reload()
		m.row = len(rec.Habits) - 1
		m.clamp()
		m.setStatus("Added " + strings.TrimSpace(value))
	case actionRenameHabit:
		m.endInput()
		if _, err := m.svc.RenameHabit(m.ctx, m.grid.Month.String(), m.row, value); err != nil {
			m.setError(err)
			return
		}
		m.reload()
		m.setStatus("Renamed")
	default:
		m.endInput()
	}
}

func (m *Model) confirm(act action) {
	switch act {
	case actionDeleteHabit:
		name, _ := m.currentHabit()
		if _, err := m.svc.DeleteHabit(m.ctx, m.grid.Month.String(), m.row); err != nil {
			m.setError(err)
			return
		}
		m.reload()
		m.setStatus(fmt.Sprintf("Deleted %q", name))
	case actionDeleteMonth:
		deleted := m.grid.Month
		res, err := m.svc.DeleteMonth(m.ctx, deleted.String())
		if err != nil {
			m.setError(err)
			return
		}
		m.reload()
		if res.Active == "" {
			m.setStatus(fmt.Sprintf("Deleted %s, no months left", deleted))
			return
		}
		m.setStatus(fmt.Sprintf("Deleted %s, now tracking %s %d", deleted, res.Active.Month(), res.Active.Year()))
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, svc *app.Service) error {
	m := New(svc)
	if ctx != nil {
		m.ctx = ctx
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
