package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
	"tableflip.dev/habits/pkg/store"
)

func newTestService() *Service {
	return &Service{
		Persistence: store.NewMemory(),
		Now: func() time.Time {
			return time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
		},
	}
}

func mustCreate(t *testing.T, svc *Service, key, habits string) *record.Record {
	t.Helper()
	rec, err := svc.CreateMonth(context.Background(), key, habits)
	if err != nil {
		t.Fatalf("create %s: %v", key, err)
	}
	return rec
}

func stored(t *testing.T, svc *Service, key string) *record.Record {
	t.Helper()
	rec, err := svc.Persistence.Get(context.Background(), month.MustParse(key))
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	return rec
}

func activeMonth(t *testing.T, svc *Service) (month.Key, bool) {
	t.Helper()
	k, ok, err := svc.Persistence.ActiveMonth(context.Background())
	if err != nil {
		t.Fatalf("active month: %v", err)
	}
	return k, ok
}

func TestCreateMonth(t *testing.T) {
	svc := newTestService()
	rec := mustCreate(t, svc, "2025-02", "Run, Read")

	want := &record.Record{Habits: []string{"Run", "Read"}, Data: [][]int{{}, {}}}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("returned record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, stored(t, svc, "2025-02")); diff != "" {
		t.Fatalf("stored record mismatch (-want +got):\n%s", diff)
	}
	if k, ok := activeMonth(t, svc); !ok || k != "2025-02" {
		t.Fatalf("expected 2025-02 active, got %q ok=%v", k, ok)
	}
}

func TestCreateMonthParsesHabitText(t *testing.T) {
	inputs := map[string][]string{
		"Workout, Lettura, Meditazione": {"Workout", "Lettura", "Meditazione"},
		" a ,, b ,":                     {"a", "b"},
		"single":                        {"single"},
	}
	i := 1
	for raw, want := range inputs {
		svc := newTestService()
		key := month.Current(time.Date(2025, time.Month(i), 1, 0, 0, 0, 0, time.UTC)).String()
		i++
		mustCreate(t, svc, key, raw)
		got := stored(t, svc, key)
		if diff := cmp.Diff(want, got.Habits); diff != "" {
			t.Fatalf("habits for %q mismatch (-want +got):\n%s", raw, diff)
		}
		for h := range got.Habits {
			if len(got.Data[h]) != 0 {
				t.Fatalf("new habit %d should have no completions", h)
			}
		}
	}
}

func TestCreateMonthErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run")

	tests := []struct {
		name   string
		key    string
		habits string
		want   error
	}{
		{name: "bad format", key: "2025-2", habits: "Run", want: ErrInvalidFormat},
		{name: "bad month", key: "2025-13", habits: "Run", want: ErrInvalidFormat},
		{name: "duplicate", key: "2025-02", habits: "Read", want: ErrDuplicateMonth},
		{name: "no habits", key: "2025-03", habits: " , ,", want: ErrEmptyHabitList},
		{name: "empty habits", key: "2025-03", habits: "", want: ErrEmptyHabitList},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateMonth(ctx, tc.key, tc.habits); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if diff := cmp.Diff([]string{"Run"}, stored(t, svc, "2025-02").Habits); diff != "" {
		t.Fatalf("duplicate create changed the stored record (-want +got):\n%s", diff)
	}
	if months, _ := svc.Months(ctx); len(months) != 1 {
		t.Fatalf("failed creates should not store anything, got %v", months)
	}
}

func TestCreateMonthOverCorruptRecordIsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	writeCorrupt(t, svc, "2025-04")
	if _, err := svc.CreateMonth(ctx, "2025-04", "Run"); !errors.Is(err, ErrDuplicateMonth) {
		t.Fatalf("expected ErrDuplicateMonth, got %v", err)
	}
}

func TestSwitchMonth(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	if err := svc.SwitchMonth(ctx, "2030-01"); err != nil {
		t.Fatalf("switch to month without record: %v", err)
	}
	if k, _ := activeMonth(t, svc); k != "2030-01" {
		t.Fatalf("expected 2030-01 active, got %q", k)
	}
	if err := svc.SwitchMonth(ctx, "January"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if k, _ := activeMonth(t, svc); k != "2030-01" {
		t.Fatalf("failed switch changed the pointer to %q", k)
	}
}

func TestDeleteActiveMonthReselectsSmallest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-03", "Run")
	mustCreate(t, svc, "2024-12", "Run")
	mustCreate(t, svc, "2025-02", "Run, Read")

	res, err := svc.DeleteMonth(ctx, "2025-02")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff(DeleteResult{Active: "2024-12", Reselected: true}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if k, _ := activeMonth(t, svc); k != "2024-12" {
		t.Fatalf("expected 2024-12 active, got %q", k)
	}
	if _, err := svc.Record(ctx, "2025-02"); !errors.Is(err, ErrNoSuchMonth) {
		t.Fatalf("expected deleted month gone, got %v", err)
	}
}

func TestDeleteInactiveMonthKeepsPointer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2024-12", "Run")
	mustCreate(t, svc, "2025-02", "Run")

	res, err := svc.DeleteMonth(ctx, "2024-12")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff(DeleteResult{Active: "2025-02"}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteLastMonth(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run")

	res, err := svc.DeleteMonth(ctx, "2025-02")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff(DeleteResult{Reselected: true}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if _, ok := activeMonth(t, svc); ok {
		t.Fatalf("expected no active month")
	}
}

func TestDeleteCorruptMonth(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	writeCorrupt(t, svc, "2025-05")
	if _, err := svc.DeleteMonth(ctx, "2025-05"); err != nil {
		t.Fatalf("delete corrupt month: %v", err)
	}
	if months, _ := svc.Months(ctx); len(months) != 0 {
		t.Fatalf("expected no months, got %v", months)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	st, err := svc.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if st.Active != "2026-10" || st.Stored || len(st.Months) != 0 {
		t.Fatalf("expected current month fallback, got %+v", st)
	}
	if _, ok := activeMonth(t, svc); ok {
		t.Fatalf("open should not persist the fallback month")
	}

	mustCreate(t, svc, "2025-02", "Run")
	mustCreate(t, svc, "2024-12", "Run")
	st, err = svc.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := State{Active: "2024-12", Stored: true, Months: []month.Key{"2024-12", "2025-02"}}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestAddHabit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run")

	rec, err := svc.AddHabit(ctx, "2025-02", "  Read ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if diff := cmp.Diff([]string{"Run", "Read"}, rec.Habits); diff != "" {
		t.Fatalf("habits mismatch (-want +got):\n%s", diff)
	}
	if !stored(t, svc, "2025-02").Aligned() {
		t.Fatalf("stored record not aligned")
	}

	if _, err := svc.AddHabit(ctx, "2025-02", "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.AddHabit(ctx, "2025-03", "Run"); !errors.Is(err, ErrNoSuchMonth) {
		t.Fatalf("expected ErrNoSuchMonth, got %v", err)
	}
	if _, err := svc.AddHabit(ctx, "25-3", "Run"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestRenameHabit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run, Read")
	if _, err := svc.ToggleDay(ctx, "2025-02", 1, 3); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	rec, err := svc.RenameHabit(ctx, "2025-02", 1, " Study ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if rec.Habits[1] != "Study" || !rec.Has(1, 3) {
		t.Fatalf("rename should keep completions: %+v", rec)
	}

	for _, idx := range []int{-1, 2, 10} {
		if _, err := svc.RenameHabit(ctx, "2025-02", idx, "x"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	if _, err := svc.RenameHabit(ctx, "2025-02", 0, ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.RenameHabit(ctx, "2025-09", 0, "x"); !errors.Is(err, ErrNoSuchMonth) {
		t.Fatalf("expected ErrNoSuchMonth, got %v", err)
	}
	if diff := cmp.Diff([]string{"Run", "Study"}, stored(t, svc, "2025-02").Habits); diff != "" {
		t.Fatalf("failed renames changed the record (-want +got):\n%s", diff)
	}
}

func TestDeleteHabitNeverResurrectsCompletions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run, Read, Write")
	for _, day := range []int{1, 2, 3} {
		if _, err := svc.ToggleDay(ctx, "2025-02", 1, day); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if _, err := svc.ToggleDay(ctx, "2025-02", 2, 9); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	rec, err := svc.DeleteHabit(ctx, "2025-02", 1)
	if err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	if diff := cmp.Diff([]string{"Run", "Write"}, rec.Habits); diff != "" {
		t.Fatalf("habits mismatch (-want +got):\n%s", diff)
	}
	if !rec.Has(1, 9) {
		t.Fatalf("later habit completions should shift down: %+v", rec.Data)
	}

	rec, err = svc.AddHabit(ctx, "2025-02", "Read")
	if err != nil {
		t.Fatalf("add habit: %v", err)
	}
	for i := range rec.Habits {
		for _, day := range []int{1, 2, 3} {
			if rec.Has(i, day) {
				t.Fatalf("habit %d has deleted completion on day %d", i, day)
			}
		}
	}
	if got := rec.Days(2); len(got) != 0 {
		t.Fatalf("new habit should be empty, got %v", got)
	}

	if _, err := svc.DeleteHabit(ctx, "2025-02", 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAlignmentAfterAddDeleteSequence(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-01", "a")

	ops := []struct {
		add   string
		del   int
		isDel bool
	}{
		{add: "b"}, {add: "c"}, {del: 0, isDel: true}, {add: "d"},
		{del: 2, isDel: true}, {del: 0, isDel: true}, {add: "e"}, {add: "f"},
		{del: 1, isDel: true},
	}
	for i, op := range ops {
		var err error
		if op.isDel {
			_, err = svc.DeleteHabit(ctx, "2025-01", op.del)
		} else {
			_, err = svc.AddHabit(ctx, "2025-01", op.add)
		}
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		rec := stored(t, svc, "2025-01")
		if len(rec.Habits) != len(rec.Data) {
			t.Fatalf("op %d: %d habits vs %d completion sets", i, len(rec.Habits), len(rec.Data))
		}
	}
	if diff := cmp.Diff([]string{"c", "f"}, stored(t, svc, "2025-01").Habits); diff != "" {
		t.Fatalf("habits mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleDayIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run, Read")

	done, err := svc.ToggleDay(ctx, "2025-02", 0, 15)
	if err != nil || !done {
		t.Fatalf("expected day 15 done, got %v err=%v", done, err)
	}
	if !stored(t, svc, "2025-02").Has(0, 15) {
		t.Fatalf("toggle not persisted")
	}
	done, err = svc.ToggleDay(ctx, "2025-02", 0, 15)
	if err != nil || done {
		t.Fatalf("expected day 15 not done, got %v err=%v", done, err)
	}
	want := &record.Record{Habits: []string{"Run", "Read"}, Data: [][]int{{}, {}}}
	if diff := cmp.Diff(want, stored(t, svc, "2025-02")); diff != "" {
		t.Fatalf("double toggle did not restore the record (-want +got):\n%s", diff)
	}
}

func TestToggleDayErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	mustCreate(t, svc, "2025-02", "Run")

	tests := []struct {
		name  string
		key   string
		habit int
		day   int
		want  error
	}{
		{name: "no month", key: "2025-03", habit: 0, day: 1, want: ErrNoSuchMonth},
		{name: "bad habit", key: "2025-02", habit: 1, day: 1, want: ErrIndexOutOfRange},
		{name: "negative habit", key: "2025-02", habit: -1, day: 1, want: ErrIndexOutOfRange},
		{name: "day zero", key: "2025-02", habit: 0, day: 0, want: ErrIndexOutOfRange},
		{name: "day past february", key: "2025-02", habit: 0, day: 29, want: ErrIndexOutOfRange},
		{name: "bad key", key: "Feb", habit: 0, day: 1, want: ErrInvalidFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ToggleDay(ctx, tc.key, tc.habit, tc.day); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProject(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	res, err := svc.Project(ctx, "2025-02")
	if err != nil {
		t.Fatalf("project absent: %v", err)
	}
	if !res.Empty {
		t.Fatalf("expected empty state for absent month")
	}

	mustCreate(t, svc, "2025-02", "Run, Read")
	if _, err := svc.ToggleDay(ctx, "2025-02", 0, 15); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	res, err = svc.Project(ctx, "2025-02")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if res.Empty || len(res.Rows) != 2 || res.Days != 28 {
		t.Fatalf("unexpected projection %+v", res)
	}
	if !res.Done(0, 15) || res.Count(0) != 1 || res.Count(1) != 0 {
		t.Fatalf("unexpected completions %+v", res.Rows)
	}

	writeCorrupt(t, svc, "2025-06")
	if _, err := svc.Project(ctx, "2025-06"); !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.CreateMonth(ctx, "bad", "x")
	if got := Message(err); !strings.Contains(got, "YYYY-MM") {
		t.Fatalf("unexpected message %q", got)
	}
	_, err = svc.AddHabit(ctx, "2025-01", "x")
	if got := Message(err); got != "No data for this month." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected fallback message %q", got)
	}
	if Message(nil) != "" {
		t.Fatalf("nil error should have no message")
	}
}

type corruptingStore struct {
	store.Persistence
	corrupt map[month.Key]bool
}

func (c *corruptingStore) Get(ctx context.Context, key month.Key) (*record.Record, error) {
	if c.corrupt[key] {
		return nil, &store.CorruptDataError{Key: key, Err: errors.New("unexpected end of JSON input")}
	}
	return c.Persistence.Get(ctx, key)
}

func (c *corruptingStore) MonthKeys(ctx context.Context) ([]month.Key, error) {
	keys, err := c.Persistence.MonthKeys(ctx)
	if err != nil {
		return nil, err
	}
	for k, bad := range c.corrupt {
		if bad {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (c *corruptingStore) Remove(ctx context.Context, key month.Key) error {
	delete(c.corrupt, key)
	return c.Persistence.Remove(ctx, key)
}

func writeCorrupt(t *testing.T, svc *Service, key string) {
	t.Helper()
	cs, ok := svc.Persistence.(*corruptingStore)
	if !ok {
		cs = &corruptingStore{Persistence: svc.Persistence, corrupt: map[month.Key]bool{}}
		svc.Persistence = cs
	}
	cs.corrupt[month.MustParse(key)] = true
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if k, err := svc.Resolve(ctx, ""); err != nil || k != "2026-10" {
		t.Fatalf("expected current month, got %q err=%v", k, err)
	}
	mustCreate(t, svc, "2025-02", "Run")
	if k, err := svc.Resolve(ctx, ""); err != nil || k != "2025-02" {
		t.Fatalf("expected active month, got %q err=%v", k, err)
	}
	if k, err := svc.Resolve(ctx, " 2024-01 "); err != nil || k != "2024-01" {
		t.Fatalf("expected explicit month, got %q err=%v", k, err)
	}
	if _, err := svc.Resolve(ctx, "2024"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}
