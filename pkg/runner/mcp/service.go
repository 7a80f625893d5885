// Package mcp provides the Model Context Protocol server integration for the
// habit tracker.
package mcp

import (
	"context"
	"errors"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/record"
	"tableflip.dev/habits/pkg/render"
	"tableflip.dev/habits/pkg/store"
)

// Service adapts app.Service results into transport-friendly values.
type Service struct {
	App *app.Service
}

// MonthSummary describes a stored month.
type MonthSummary struct {
	Month      string `json:"month"`
	Active     bool   `json:"active"`
	HabitCount int    `json:"habitCount"`
	Days       int    `json:"days"`
	DoneCount  int    `json:"doneCount"`
	Corrupt    bool   `json:"corrupt,omitempty"`
}

// Catalog is the list_months payload.
type Catalog struct {
	Active string         `json:"active"`
	Stored bool           `json:"stored"`
	Months []MonthSummary `json:"months"`
	Count  int            `json:"count"`
}

// NewService builds a service wrapper using the provided persistence layer.
func NewService(p store.Persistence) *Service {
	return &Service{App: &app.Service{Persistence: p}}
}

var errNoApp = errors.New("persistence is not configured")

// ListMonths summarizes every stored month.
func (s *Service) ListMonths(ctx context.Context) (*Catalog, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	st, err := s.App.Open(ctx)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		Active: st.Active.String(),
		Stored: st.Stored,
		Months: make([]MonthSummary, 0, len(st.Months)),
		Count:  len(st.Months),
	}
	for _, k := range st.Months {
		sum := MonthSummary{Month: k.String(), Active: k == st.Active}
		res, err := s.App.Project(ctx, k.String())
		switch {
		case errors.Is(err, app.ErrCorruptData):
			sum.Corrupt = true
		case err != nil:
			return nil, err
		default:
			sum.HabitCount = len(res.Rows)
			sum.Days = res.Days
			for i := range res.Rows {
				sum.DoneCount += res.Count(i)
			}
		}
		c.Months = append(c.Months, sum)
	}
	return c, nil
}

// GetMonth returns the grid of raw, or of the active month when raw is empty.
func (s *Service) GetMonth(ctx context.Context, raw string) (*render.View, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	key, err := s.App.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	res, err := s.App.Project(ctx, key.String())
	if err != nil {
		return nil, err
	}
	v := res.View()
	return &v, nil
}

// CreateMonth stores a month with comma separated habits and activates it.
func (s *Service) CreateMonth(ctx context.Context, raw, habits string) (*render.View, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	if _, err := s.App.CreateMonth(ctx, raw, habits); err != nil {
		return nil, err
	}
	return s.GetMonth(ctx, raw)
}

// SwitchMonth changes the active month.
func (s *Service) SwitchMonth(ctx context.Context, raw string) (*Catalog, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	if err := s.App.SwitchMonth(ctx, raw); err != nil {
		return nil, err
	}
	return s.ListMonths(ctx)
}

// DeleteResult is the delete_month payload.
type DeleteResult struct {
	Deleted    string `json:"deleted"`
	Active     string `json:"active,omitempty"`
	Reselected bool   `json:"reselected"`
}

// DeleteMonth removes a month and reports the resulting active month.
func (s *Service) DeleteMonth(ctx context.Context, raw string) (*DeleteResult, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	res, err := s.App.DeleteMonth(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: raw, Active: res.Active.String(), Reselected: res.Reselected}, nil
}

// AddHabit appends a habit to a month.
func (s *Service) AddHabit(ctx context.Context, raw, name string) (*render.View, error) {
	return s.mutate(ctx, raw, func(month string) (*record.Record, error) {
		return s.App.AddHabit(ctx, month, name)
	})
}

// RenameHabit renames the habit at the 0-based index.
func (s *Service) RenameHabit(ctx context.Context, raw string, index int, name string) (*render.View, error) {
	return s.mutate(ctx, raw, func(month string) (*record.Record, error) {
		return s.App.RenameHabit(ctx, month, index, name)
	})
}

// DeleteHabit removes the habit at the 0-based index.
func (s *Service) DeleteHabit(ctx context.Context, raw string, index int) (*render.View, error) {
	return s.mutate(ctx, raw, func(month string) (*record.Record, error) {
		return s.App.DeleteHabit(ctx, month, index)
	})
}

// ToggleResult is the toggle_day payload.
type ToggleResult struct {
	Month string `json:"month"`
	Habit string `json:"habit"`
	Index int    `json:"index"`
	Day   int    `json:"day"`
	Done  bool   `json:"done"`
}

// ToggleDay flips a day for the habit at the 0-based index.
func (s *Service) ToggleDay(ctx context.Context, raw string, index, day int) (*ToggleResult, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	key, err := s.App.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	done, err := s.App.ToggleDay(ctx, key.String(), index, day)
	if err != nil {
		return nil, err
	}
	rec, err := s.App.Record(ctx, key.String())
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Month: key.String(), Habit: rec.Habits[index], Index: index, Day: day, Done: done}, nil
}

func (s *Service) mutate(ctx context.Context, raw string, fn func(month string) (*record.Record, error)) (*render.View, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	key, err := s.App.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	rec, err := fn(key.String())
	if err != nil {
		return nil, err
	}
	v := render.Project(key, rec).View()
	return &v, nil
}
