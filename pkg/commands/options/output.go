package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/app"
)

// ErrReported is returned once a failure was already written as JSON, so the
// command still exits non-zero.
var ErrReported = errors.New("command failed")

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out receives JSON errors, color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as a JSON object when --json is set, otherwise it
// returns err prefixed with its user facing message.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil {
		return nil
	}
	msg := app.Message(err)
	if o.JSON {
		out := map[string]string{
			"error":  msg,
			"detail": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		w := o.Out
		if w == nil {
			w = color.Output
		}
		_, _ = fmt.Fprintln(w, string(b))
		return ErrReported
	}
	if msg != err.Error() {
		return fmt.Errorf("%s (%w)", msg, err)
	}
	return err
}
