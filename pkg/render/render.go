// Package render projects a month record onto the habit by day grid that the
// UIs draw. It has no side effects.
package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
)

// Column describes one day of the month.
type Column struct {
	Day    int
	Accent colorful.Color
}

// Row is one habit and its completion state for each day, Done[d] being day
// d+1.
type Row struct {
	Index int
	Name  string
	Done  []bool
}

// Result is the projection of a month. When Empty is set there is no record
// for Month and the other fields are zero.
type Result struct {
	Month   month.Key
	Empty   bool
	Days    int
	Columns []Column
	Rows    []Row
}

// Project builds the grid for rec. A nil rec yields the empty state.
func Project(key month.Key, rec *record.Record) Result {
	if rec == nil {
		return Result{Month: key, Empty: true}
	}

	days := month.DaysIn(key)
	res := Result{
		Month:   key,
		Days:    days,
		Columns: make([]Column, days),
		Rows:    make([]Row, len(rec.Habits)),
	}
	for d := 0; d < days; d++ {
		res.Columns[d] = Column{Day: d + 1, Accent: Accent(d + 1)}
	}
	for i, name := range rec.Habits {
		done := make([]bool, days)
		for d := range done {
			done[d] = rec.Has(i, d+1)
		}
		res.Rows[i] = Row{Index: i, Name: name, Done: done}
	}
	return res
}

// Done reports the state of habit row on day, false when out of range.
func (r Result) Done(row, day int) bool {
	if row < 0 || row >= len(r.Rows) || day < 1 || day > len(r.Rows[row].Done) {
		return false
	}
	return r.Rows[row].Done[day-1]
}

// Count returns how many days habit row was completed this month.
func (r Result) Count(row int) int {
	if row < 0 || row >= len(r.Rows) {
		return 0
	}
	n := 0
	for _, done := range r.Rows[row].Done {
		if done {
			n++
		}
	}
	return n
}
