package toggle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/printers"
	"tableflip.dev/habits/pkg/record"
)

// Toggle flips one day of one habit. Habit is a 1-based index or the exact
// habit name.
type Toggle struct {
	Month string
	Habit string
	Day   int
	JSON  bool

	Service *app.Service
	Out     io.Writer
}

type result struct {
	Month string `json:"month"`
	Habit string `json:"habit"`
	Day   int    `json:"day"`
	Done  bool   `json:"done"`
}

func (n *Toggle) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not toggle, no service")
	}
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}
	rec, err := n.Service.Record(ctx, key.String())
	if err != nil {
		return err
	}
	index, err := Lookup(rec, n.Habit)
	if err != nil {
		return err
	}

	done, err := n.Service.ToggleDay(ctx, key.String(), index, n.Day)
	if err != nil {
		return err
	}

	w := n.Out
	if w == nil {
		w = color.Output
	}
	if n.JSON {
		return printers.JSON(w, result{Month: key.String(), Habit: rec.Habits[index], Day: n.Day, Done: done})
	}

	state := color.New(color.Faint).Sprint("not done")
	if done {
		state = color.New(color.FgGreen, color.Bold).Sprint("done")
	}
	_, _ = fmt.Fprintf(w, "%s on %d %s: %s\n", rec.Habits[index], n.Day, key.Month(), state)
	return nil
}

// Lookup finds a habit by 1-based index or, failing that, by exact name.
func Lookup(rec *record.Record, habit string) (int, error) {
	habit = strings.TrimSpace(habit)
	if i, err := strconv.Atoi(habit); err == nil {
		if !rec.InRange(i - 1) {
			return 0, fmt.Errorf("%w: habit %d of %d", app.ErrIndexOutOfRange, i, rec.Len())
		}
		return i - 1, nil
	}
	for i, name := range rec.Habits {
		if name == habit {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no habit named %q", app.ErrIndexOutOfRange, habit)
}
