package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the habit grid in the terminal",
		Example: `
habits ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			so.Quiet()
			svc, err := so.Service()
			if err != nil {
				return err
			}
			i := ui.UI{Service: svc}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
