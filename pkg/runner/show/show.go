package show

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/printers"
)

// Show prints the habit grid of Month, the active month when empty.
type Show struct {
	Month string
	JSON  bool

	Service *app.Service
	Out     io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	key, err := n.Service.Resolve(ctx, n.Month)
	if err != nil {
		return err
	}
	res, err := n.Service.Project(ctx, key.String())
	if err != nil {
		return err
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, res.View())
	}
	pp.Grid(res)
	return nil
}
