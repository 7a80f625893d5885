package render

import "tableflip.dev/habits/pkg/month"

// View is the JSON shape of a Result used by --json output and the MCP
// server.
type View struct {
	Month   string      `json:"month"`
	Empty   bool        `json:"empty"`
	Days    int         `json:"days,omitempty"`
	Accents []string    `json:"accents,omitempty"`
	Habits  []HabitView `json:"habits"`
}

// HabitView is one row of a View. Done lists completed days ascending.
type HabitView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Done  []int  `json:"done"`
	Count int    `json:"count"`
}

// View flattens r for serialization.
func (r Result) View() View {
	v := View{
		Month:  r.Month.String(),
		Empty:  r.Empty,
		Days:   r.Days,
		Habits: make([]HabitView, 0, len(r.Rows)),
	}
	for _, col := range r.Columns {
		v.Accents = append(v.Accents, col.Accent.Hex())
	}
	for i, row := range r.Rows {
		done := []int{}
		for d, ok := range row.Done {
			if ok {
				done = append(done, d+1)
			}
		}
		v.Habits = append(v.Habits, HabitView{Index: row.Index, Name: row.Name, Done: done, Count: r.Count(i)})
	}
	return v
}

// Empty returns the projection of a month without a record.
func Empty(key month.Key) Result {
	return Project(key, nil)
}
