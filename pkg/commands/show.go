package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/commands/options"
	"tableflip.dev/habits/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "show [YYYY-MM]",
		Short: "Print the habit grid of a month.",
		Example: `
habits show
habits show 2025-02 --json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeMonthArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			s := show.Show{
				JSON:    oo.JSON,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				s.Month = args[0]
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
