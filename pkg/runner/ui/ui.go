// Package ui starts the interactive habit grid.
package ui

import (
	"context"
	"errors"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/tui/grid"
)

type UI struct {
	Service *app.Service
}

func (d *UI) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not start ui, no service")
	}
	return grid.Run(ctx, d.Service)
}
