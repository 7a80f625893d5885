package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/store"
)

// Info prints where habits are stored and which months exist.
type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}

	if override := os.Getenv("HABITS_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(w, "HABITS_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, "HABITS_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(w, "Config.backend:", n.Config.Backend())

	if n.Persistence == nil {
		return errors.New("failed to create persistence object")
	}

	active, ok, err := n.Persistence.ActiveMonth(ctx)
	if err != nil {
		return err
	}
	if ok {
		_, _ = fmt.Fprintln(w, "Active month:", active)
	} else {
		_, _ = fmt.Fprintln(w, "Active month: not set")
	}

	keys, err := n.Persistence.MonthKeys(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Months:\n")
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s  %d days\n", k, month.DaysIn(k))
	}
	if len(keys) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", "no months")
	}
	return nil
}
