package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
)

func TestProjectAbsentIsEmpty(t *testing.T) {
	res := Project(month.MustParse("2025-02"), nil)
	if !res.Empty {
		t.Fatalf("expected empty state")
	}
	if len(res.Rows) != 0 || len(res.Columns) != 0 || res.Days != 0 {
		t.Fatalf("empty state should carry no grid: %+v", res)
	}
	if res.Done(0, 1) || res.Count(0) != 0 {
		t.Fatalf("empty state reports completions")
	}
}

func TestProjectFebruary(t *testing.T) {
	rec := record.New(record.ParseHabits("Run, Read"))
	res := Project(month.MustParse("2025-02"), rec)

	if res.Empty {
		t.Fatalf("unexpected empty state")
	}
	if res.Days != 28 || len(res.Columns) != 28 {
		t.Fatalf("expected 28 columns, got %d/%d", res.Days, len(res.Columns))
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	for _, row := range res.Rows {
		if len(row.Done) != 28 {
			t.Fatalf("row %q: expected 28 cells, got %d", row.Name, len(row.Done))
		}
		for d, done := range row.Done {
			if done {
				t.Fatalf("row %q day %d unexpectedly done", row.Name, d+1)
			}
		}
	}
	if res.Rows[0].Name != "Run" || res.Rows[1].Name != "Read" || res.Rows[1].Index != 1 {
		t.Fatalf("rows out of order: %+v", res.Rows)
	}
}

func TestProjectLeapFebruary(t *testing.T) {
	res := Project(month.MustParse("2024-02"), record.New([]string{"x"}))
	if res.Days != 29 {
		t.Fatalf("expected 29 days, got %d", res.Days)
	}
}

func TestProjectMarksCompletedDays(t *testing.T) {
	rec := record.New([]string{"Run", "Read"})
	rec.Toggle(0, 15)
	rec.Toggle(1, 1)
	rec.Toggle(1, 31)
	res := Project(month.MustParse("2025-03"), rec)

	if !res.Done(0, 15) || res.Done(0, 14) || res.Done(0, 16) {
		t.Fatalf("habit 0 completions wrong: %v", res.Rows[0].Done)
	}
	if !res.Done(1, 1) || !res.Done(1, 31) {
		t.Fatalf("habit 1 completions wrong: %v", res.Rows[1].Done)
	}
	if res.Count(1) != 2 {
		t.Fatalf("expected count 2, got %d", res.Count(1))
	}
}

func TestProjectIgnoresStaleDays(t *testing.T) {
	rec := record.New([]string{"Run"})
	rec.Data[0] = []int{30, 31, 0, -4}
	res := Project(month.MustParse("2025-02"), rec)
	if res.Count(0) != 0 {
		t.Fatalf("stale days beyond the month should not render, got %v", res.Rows[0].Done)
	}
}

func TestAccents(t *testing.T) {
	res := Project(month.MustParse("2025-01"), record.New(nil))
	if len(Palette) != 31 {
		t.Fatalf("expected 31 palette entries, got %d", len(Palette))
	}
	seen := make(map[string]struct{}, len(Palette))
	for _, c := range Palette {
		seen[c.Hex()] = struct{}{}
	}
	if len(seen) != 31 {
		t.Fatalf("palette entries should be distinct, got %d", len(seen))
	}
	for i, col := range res.Columns {
		if col.Day != i+1 {
			t.Fatalf("column %d has day %d", i, col.Day)
		}
		if col.Accent != Palette[i] {
			t.Fatalf("day %d accent %s, expected %s", col.Day, col.Accent.Hex(), Palette[i].Hex())
		}
	}
	if Accent(1).Hex() != "#ff5ca9" || Accent(31).Hex() != "#b10011" {
		t.Fatalf("unexpected palette ends %s %s", Accent(1).Hex(), Accent(31).Hex())
	}
	if Accent(32) != Accent(1) {
		t.Fatalf("palette should cycle past 31")
	}
}

func TestView(t *testing.T) {
	rec := record.New([]string{"Run", "Read"})
	rec.Toggle(0, 15)
	rec.Toggle(0, 2)

	v := Project("2025-02", rec).View()
	if v.Month != "2025-02" || v.Empty || v.Days != 28 || len(v.Accents) != 28 {
		t.Fatalf("unexpected view header %+v", v)
	}
	if v.Accents[0] != "#ff5ca9" {
		t.Fatalf("expected first accent #ff5ca9, got %s", v.Accents[0])
	}
	want := []HabitView{
		{Index: 0, Name: "Run", Done: []int{2, 15}, Count: 2},
		{Index: 1, Name: "Read", Done: []int{}, Count: 0},
	}
	if diff := cmp.Diff(want, v.Habits); diff != "" {
		t.Fatalf("habits mismatch (-want +got):\n%s", diff)
	}

	empty := Empty("2025-03").View()
	if !empty.Empty || empty.Habits == nil || len(empty.Habits) != 0 {
		t.Fatalf("unexpected empty view %+v", empty)
	}
}
