package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/habits/pkg/render"
)

const maxNameWidth = 20

// Grid draws the habit by day table for res. Done cells carry the day accent,
// or an "x" when color is off.
func (pp *PrettyPrint) Grid(res render.Result) {
	pp.Title(fmt.Sprintf("%s %d", res.Month.Month(), res.Month.Year()))
	if res.Empty {
		pp.Message(EmptyMonth)
		return
	}
	if len(res.Rows) == 0 {
		pp.Message("no habits")
		return
	}

	out := pp.output()
	names := make([]string, len(res.Rows))
	nameWidth := 0
	for i, row := range res.Rows {
		names[i] = truncate.StringWithTail(row.Name, maxNameWidth, "…")
		if w := ansi.PrintableRuneWidth(names[i]); w > nameWidth {
			nameWidth = w
		}
	}
	indent := strings.Repeat(" ", nameWidth+2)

	var b strings.Builder
	b.WriteString(indent)
	for _, col := range res.Columns {
		day := fmt.Sprintf("%2d ", col.Day)
		b.WriteString(out.String(day).Foreground(out.Color(col.Accent.Hex())).String())
	}
	b.WriteString("\n")

	faint := pp.style(color.Faint)
	for i, row := range res.Rows {
		b.WriteString(padding.String(names[i], uint(nameWidth)))
		b.WriteString("  ")
		for d, done := range row.Done {
			b.WriteString(pp.cell(res.Columns[d], done))
		}
		b.WriteString(faint.Sprintf(" %d/%d", res.Count(i), res.Days))
		b.WriteString("\n")
	}
	_, _ = fmt.Fprint(pp.Out, b.String())
}

func (pp *PrettyPrint) cell(col render.Column, done bool) string {
	if pp.NoColor {
		if done {
			return " x "
		}
		return " . "
	}
	out := pp.output()
	if done {
		return out.String(" x ").
			Foreground(out.Color(render.OnAccent.Hex())).
			Background(out.Color(col.Accent.Hex())).
			Bold().
			String()
	}
	return out.String(" · ").Foreground(out.Color(render.Idle.Hex())).Faint().String()
}
