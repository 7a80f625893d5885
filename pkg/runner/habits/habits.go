// Package habits runs the habit level commands of a month: add, rename, rm and
// list. Indices are 1-based as typed on the command line.
package habits

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/printers"
	"tableflip.dev/habits/pkg/prompt"
	"tableflip.dev/habits/pkg/record"
)

// Add appends a habit to Month, the active month when empty.
type Add struct {
	Month string
	Name  string

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add habit, no service")
	}
	pp := printers.New(out(n.Out))
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}

	name := n.Name
	if name == "" && n.Prompt != nil {
		name, err = n.Prompt.Text("Habit name", nil)
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	rec, err := n.Service.AddHabit(ctx, key.String(), name)
	if err != nil {
		return err
	}
	pp.Habits(key, rec)
	return nil
}

// Rename changes the name of habit Index in Month.
type Rename struct {
	Month string
	Index int
	Name  string

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *Rename) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not rename habit, no service")
	}
	pp := printers.New(out(n.Out))
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}

	name := n.Name
	if name == "" && n.Prompt != nil {
		name, err = n.Prompt.Text("New name", nil)
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	rec, err := n.Service.RenameHabit(ctx, key.String(), n.Index-1, name)
	if err != nil {
		return err
	}
	pp.Habits(key, rec)
	return nil
}

// Delete removes habit Index and its completions from Month.
type Delete struct {
	Month string
	Index int
	Yes   bool

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete habit, no service")
	}
	pp := printers.New(out(n.Out))
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}
	rec, err := n.Service.Record(ctx, key.String())
	if err != nil {
		return err
	}
	if !rec.InRange(n.Index - 1) {
		return fmt.Errorf("%w: habit %d of %d", app.ErrIndexOutOfRange, n.Index, rec.Len())
	}

	if !n.Yes {
		if n.Prompt == nil {
			return errors.New("refusing to delete without confirmation, pass --yes")
		}
		ok, err := n.Prompt.Confirm(fmt.Sprintf("Delete %q and its history", rec.Habits[n.Index-1]))
		if errors.Is(err, prompt.ErrCancelled) || (err == nil && !ok) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	rec, err = n.Service.DeleteHabit(ctx, key.String(), n.Index-1)
	if err != nil {
		return err
	}
	pp.Habits(key, rec)
	return nil
}

// List prints the habits of Month.
type List struct {
	Month string
	JSON  bool

	Service *app.Service
	Out     io.Writer
}

type listing struct {
	Month  string         `json:"month"`
	Record *record.Record `json:"record"`
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list habits, no service")
	}
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}
	rec, err := n.Service.Record(ctx, key.String())
	if errors.Is(err, app.ErrNoSuchMonth) {
		rec, err = nil, nil
	}
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(out(n.Out), listing{Month: key.String(), Record: rec})
	}
	printers.New(out(n.Out)).Habits(key, rec)
	return nil
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
