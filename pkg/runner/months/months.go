// Package months runs the month level commands: new, use, months and
// rm-month.
package months

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/printers"
	"tableflip.dev/habits/pkg/prompt"
)

// New creates a month. Missing values are asked for through Prompt.
type New struct {
	Month  string
	Habits []string

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *New) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create month, no service")
	}
	pp := printers.New(out(n.Out))

	key := n.Month
	if key == "" && n.Prompt != nil {
		var err error
		key, err = n.Prompt.Text("Month (YYYY-MM)", func(v string) error {
			if !month.Valid(strings.TrimSpace(v)) {
				return app.ErrInvalidFormat
			}
			return nil
		})
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	habits := strings.Join(n.Habits, ",")
	if strings.TrimSpace(habits) == "" && n.Prompt != nil {
		var err error
		habits, err = n.Prompt.Text("Habits (comma separated)", nil)
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if _, err := n.Service.CreateMonth(ctx, strings.TrimSpace(key), habits); err != nil {
		return err
	}
	res, err := n.Service.Project(ctx, strings.TrimSpace(key))
	if err != nil {
		return err
	}
	pp.Grid(res)
	return nil
}

// Use switches the active month. Without Month the user picks one of the
// stored months.
type Use struct {
	Month string

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *Use) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not switch month, no service")
	}
	pp := printers.New(out(n.Out))

	key := n.Month
	if key == "" {
		picked, err := pick(ctx, n.Service, n.Prompt, "Switch to")
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		key = picked
	}
	if err := n.Service.SwitchMonth(ctx, key); err != nil {
		return err
	}
	k := month.Key(strings.TrimSpace(key))
	_, _ = fmt.Fprintf(pp.Out, "Now tracking %s %d.\n", k.Month(), k.Year())
	return nil
}

// List prints the stored months.
type List struct {
	JSON bool

	Service *app.Service
	Out     io.Writer
}

type listing struct {
	Active string   `json:"active"`
	Stored bool     `json:"stored"`
	Months []string `json:"months"`
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list months, no service")
	}
	st, err := n.Service.Open(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		l := listing{Active: st.Active.String(), Stored: st.Stored, Months: make([]string, 0, len(st.Months))}
		for _, k := range st.Months {
			l.Months = append(l.Months, k.String())
		}
		return printers.JSON(out(n.Out), l)
	}
	printers.New(out(n.Out)).Months(st.Months, st.Active)
	return nil
}

// Delete removes a month after confirmation.
type Delete struct {
	Month string
	Yes   bool

	Service *app.Service
	Prompt  prompt.Collector
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete month, no service")
	}
	pp := printers.New(out(n.Out))

	key := n.Month
	if key == "" {
		picked, err := pick(ctx, n.Service, n.Prompt, "Delete")
		if errors.Is(err, prompt.ErrCancelled) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		key = picked
	}
	k, err := month.Parse(strings.TrimSpace(key))
	if err != nil {
		return err
	}

	if !n.Yes {
		if n.Prompt == nil {
			return errors.New("refusing to delete without confirmation, pass --yes")
		}
		ok, err := n.Prompt.Confirm(fmt.Sprintf("Delete all data for %s %d", k.Month(), k.Year()))
		if errors.Is(err, prompt.ErrCancelled) || (err == nil && !ok) {
			pp.Message("cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	res, err := n.Service.DeleteMonth(ctx, k.String())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(pp.Out, "Deleted %s.\n", k)
	switch {
	case res.Active == "":
		pp.Message("no months left")
	case res.Reselected:
		_, _ = fmt.Fprintf(pp.Out, "Now tracking %s %d.\n", res.Active.Month(), res.Active.Year())
	}
	return nil
}

func pick(ctx context.Context, svc *app.Service, p prompt.Collector, label string) (string, error) {
	if p == nil {
		return "", errors.New("a month is required")
	}
	keys, err := svc.Months(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", app.ErrNoSuchMonth
	}
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = k.String()
	}
	i, err := p.Select(label, items)
	if err != nil {
		return "", err
	}
	return items[i], nil
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
