// Package app implements the habit tracker operations on top of a store.
// Every mutation reads the current record, changes a copy and writes it back,
// so a failed operation leaves the stored state untouched.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
	"tableflip.dev/habits/pkg/render"
	"tableflip.dev/habits/pkg/store"
)

// Service provides the month, habit and day operations shared by the CLI, the
// TUI and the MCP server.
type Service struct {
	Persistence store.Persistence
	// Log defaults to a no-op logger.
	Log *zap.Logger
	// Now defaults to time.Now. It picks the month to open when no active
	// month is stored.
	Now func() time.Time
}

// State is what a UI needs to draw on load.
type State struct {
	// Active is the month to display, never empty.
	Active month.Key
	// Stored reports whether Active came from the persisted pointer.
	Stored bool
	// Months lists every month with a record, ascending.
	Months []month.Key
}

// DeleteResult describes the active month after DeleteMonth.
type DeleteResult struct {
	// Active is the month now active, empty when no month remains.
	Active month.Key
	// Reselected reports whether DeleteMonth picked a new active month.
	Reselected bool
}

var errNoPersistence = errors.New("app: no persistence configured")

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Open returns the month to display and the month catalog. Without a stored
// pointer the current calendar month is used, without persisting it.
func (s *Service) Open(ctx context.Context) (State, error) {
	if s.Persistence == nil {
		return State{}, errNoPersistence
	}
	months, err := s.Persistence.MonthKeys(ctx)
	if err != nil {
		return State{}, err
	}
	active, ok, err := s.Persistence.ActiveMonth(ctx)
	if err != nil {
		return State{}, err
	}
	if !ok {
		active = month.Current(s.now())
	}
	return State{Active: active, Stored: ok, Months: months}, nil
}

// Resolve parses raw, or returns the month Open would display when raw is
// empty.
func (s *Service) Resolve(ctx context.Context, raw string) (month.Key, error) {
	if strings.TrimSpace(raw) != "" {
		return month.Parse(strings.TrimSpace(raw))
	}
	st, err := s.Open(ctx)
	if err != nil {
		return "", err
	}
	return st.Active, nil
}

// Months returns all months with a record in ascending order.
func (s *Service) Months(ctx context.Context) ([]month.Key, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.MonthKeys(ctx)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Record returns the record for key, ErrNoSuchMonth when absent.
func (s *Service) Record(ctx context.Context, raw string) (*record.Record, error) {
	key, err := month.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, key)
}

// Project loads the month and builds its grid. A missing record yields the
// empty state; a corrupt one is returned as an error.
func (s *Service) Project(ctx context.Context, raw string) (render.Result, error) {
	key, err := month.Parse(raw)
	if err != nil {
		return render.Result{}, err
	}
	rec, err := s.load(ctx, key)
	if errors.Is(err, ErrNoSuchMonth) {
		return render.Project(key, nil), nil
	}
	if err != nil {
		return render.Result{}, err
	}
	return render.Project(key, rec), nil
}

// CreateMonth stores a new month with the comma separated habits in
// rawHabits and makes it the active month.
func (s *Service) CreateMonth(ctx context.Context, raw string, rawHabits string) (*record.Record, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	key, err := month.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch _, err := s.Persistence.Get(ctx, key); {
	case err == nil, errors.Is(err, store.ErrCorruptData):
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMonth, key)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	habits := record.ParseHabits(rawHabits)
	if len(habits) == 0 {
		return nil, ErrEmptyHabitList
	}

	rec := record.New(habits)
	if err := s.Persistence.Put(ctx, key, rec); err != nil {
		return nil, err
	}
	if err := s.Persistence.SetActiveMonth(ctx, key); err != nil {
		return nil, err
	}
	s.log().Debug("created month", zap.String("month", key.String()), zap.Strings("habits", habits))
	return rec, nil
}

// SwitchMonth makes key the active month. The month need not have a record.
func (s *Service) SwitchMonth(ctx context.Context, raw string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	key, err := month.Parse(raw)
	if err != nil {
		return err
	}
	if err := s.Persistence.SetActiveMonth(ctx, key); err != nil {
		return err
	}
	s.log().Debug("switched month", zap.String("month", key.String()))
	return nil
}

// DeleteMonth removes the record for key. When the active pointer named key
// it is cleared; if no pointer remains the smallest remaining month becomes
// active.
func (s *Service) DeleteMonth(ctx context.Context, raw string) (DeleteResult, error) {
	if s.Persistence == nil {
		return DeleteResult{}, errNoPersistence
	}
	key, err := month.Parse(raw)
	if err != nil {
		return DeleteResult{}, err
	}
	if err := s.Persistence.Remove(ctx, key); err != nil {
		return DeleteResult{}, err
	}

	active, ok, err := s.Persistence.ActiveMonth(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	if ok && active == key {
		if err := s.Persistence.ClearActiveMonth(ctx); err != nil {
			return DeleteResult{}, err
		}
		ok = false
	}
	s.log().Debug("deleted month", zap.String("month", key.String()))
	if ok {
		return DeleteResult{Active: active}, nil
	}

	months, err := s.Persistence.MonthKeys(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	if len(months) == 0 {
		return DeleteResult{Reselected: true}, nil
	}
	next := months[0]
	if err := s.Persistence.SetActiveMonth(ctx, next); err != nil {
		return DeleteResult{}, err
	}
	s.log().Debug("reselected month", zap.String("month", next.String()))
	return DeleteResult{Active: next, Reselected: true}, nil
}

// AddHabit appends a habit with no completions.
func (s *Service) AddHabit(ctx context.Context, raw string, name string) (*record.Record, error) {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, raw, func(key month.Key, rec *record.Record) error {
		if name == "" {
			return ErrEmptyName
		}
		rec.Append(name)
		s.log().Debug("added habit", zap.String("month", key.String()), zap.String("habit", name))
		return nil
	})
}

// RenameHabit replaces the name of the habit at index. Completions stay.
func (s *Service) RenameHabit(ctx context.Context, raw string, index int, name string) (*record.Record, error) {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, raw, func(key month.Key, rec *record.Record) error {
		if !rec.InRange(index) {
			return indexError("habit", index, rec.Len())
		}
		if name == "" {
			return ErrEmptyName
		}
		s.log().Debug("renamed habit",
			zap.String("month", key.String()),
			zap.String("from", rec.Habits[index]),
			zap.String("habit", name))
		rec.Rename(index, name)
		return nil
	})
}

// DeleteHabit removes the habit at index and its completions. Indices of
// later habits shift down by one.
func (s *Service) DeleteHabit(ctx context.Context, raw string, index int) (*record.Record, error) {
	return s.mutate(ctx, raw, func(key month.Key, rec *record.Record) error {
		if !rec.InRange(index) {
			return indexError("habit", index, rec.Len())
		}
		s.log().Debug("deleted habit", zap.String("month", key.String()), zap.String("habit", rec.Habits[index]))
		rec.Remove(index)
		return nil
	})
}

// ToggleDay flips whether the habit at index was done on day and returns the
// new state.
func (s *Service) ToggleDay(ctx context.Context, raw string, index, day int) (bool, error) {
	var done bool
	_, err := s.mutate(ctx, raw, func(key month.Key, rec *record.Record) error {
		if !rec.InRange(index) {
			return indexError("habit", index, rec.Len())
		}
		if days := month.DaysIn(key); day < 1 || day > days {
			return fmt.Errorf("%w: day %d not in 1..%d", ErrIndexOutOfRange, day, days)
		}
		done = rec.Toggle(index, day)
		s.log().Debug("toggled day",
			zap.String("month", key.String()),
			zap.Int("habit", index),
			zap.Int("day", day),
			zap.Bool("done", done))
		return nil
	})
	return done, err
}

// mutate applies fn to a copy of the month's record and persists the copy
// only if fn succeeds.
func (s *Service) mutate(ctx context.Context, raw string, fn func(month.Key, *record.Record) error) (*record.Record, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	key, err := month.Parse(raw)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(key, next); err != nil {
		return nil, err
	}
	if err := s.Persistence.Put(ctx, key, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) load(ctx context.Context, key month.Key) (*record.Record, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	rec, err := s.Persistence.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrNoSuchMonth, key)
	case errors.Is(err, store.ErrCorruptData):
		s.log().Warn("corrupt month record", zap.String("month", key.String()), zap.Error(err))
		return nil, err
	case err != nil:
		return nil, err
	}
	return rec, nil
}

func indexError(what string, index, n int) error {
	return fmt.Errorf("%w: %s %d not in 0..%d", ErrIndexOutOfRange, what, index, n-1)
}
