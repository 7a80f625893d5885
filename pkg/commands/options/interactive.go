package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/prompt"
)

// InteractiveOptions
type InteractiveOptions struct {
	NoInput bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVar(&o.NoInput, "no-input", false,
		`Never prompt for missing arguments or confirmations.`)
}

// Collector returns a terminal prompt when stdin is a terminal and prompting
// was not disabled, nil otherwise.
func (o *InteractiveOptions) Collector(cmd *cobra.Command) prompt.Collector {
	if o.NoInput {
		return nil
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !(isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())) {
		return nil
	}
	return prompt.Terminal{In: in, Out: cmd.OutOrStdout()}
}
