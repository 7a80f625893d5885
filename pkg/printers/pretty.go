package printers

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
	"tableflip.dev/habits/pkg/render"
)

// EmptyMonth is printed in place of a grid when a month has no record.
const EmptyMonth = "No data for this month."

type PrettyPrint struct {
	Out     io.Writer
	NoColor bool

	term *termenv.Output
}

// New returns a printer for w. Color is enabled only when w is a terminal.
func New(w io.Writer) *PrettyPrint {
	if w == nil {
		w = color.Output
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	return &PrettyPrint{Out: w, NoColor: noColor}
}

func (pp *PrettyPrint) output() *termenv.Output {
	if pp.term == nil {
		profile := termenv.TrueColor
		if pp.NoColor {
			profile = termenv.Ascii
		}
		pp.term = termenv.NewOutput(pp.Out, termenv.WithProfile(profile))
	}
	return pp.term
}

func (pp *PrettyPrint) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out, "")
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprintln(pp.Out, title)
}

// Message prints a faint one line notice.
func (pp *PrettyPrint) Message(msg string) {
	_, _ = pp.style(color.Faint, color.Italic).Fprintln(pp.Out, msg)
}

// Months lists the stored months, marking the active one.
func (pp *PrettyPrint) Months(keys []month.Key, active month.Key) {
	if len(keys) == 0 {
		pp.Message("no months")
		return
	}
	mark := pp.style(color.FgHiYellow, color.Bold)

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("", "MONTH", "NAME")
	for _, k := range keys {
		current := ""
		if k == active {
			current = mark.Sprint("*")
		}
		table.AddRow(current, k.String(), fmt.Sprintf("%s %d", k.Month(), k.Year()))
	}
	_, _ = fmt.Fprintln(pp.Out, table)
}

// Habits lists the habits of rec with their position and completion count.
func (pp *PrettyPrint) Habits(key month.Key, rec *record.Record) {
	if rec == nil {
		pp.Message(EmptyMonth)
		return
	}
	pp.Title(fmt.Sprintf("%s %d", key.Month(), key.Year()))
	if len(rec.Habits) == 0 {
		pp.Message("no habits")
		return
	}
	faint := pp.style(color.Faint)

	res := render.Project(key, rec)

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("#", "HABIT", "DONE")
	for i, name := range rec.Habits {
		table.AddRow(i+1, name, faint.Sprintf("%d/%d", res.Count(i), res.Days))
	}
	_, _ = fmt.Fprintln(pp.Out, table)
}
