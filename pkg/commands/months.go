package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/commands/options"
	"tableflip.dev/habits/pkg/runner/months"
)

func addNew(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:   "new [YYYY-MM] [habits...]",
		Short: "Start tracking a month.",
		Example: `
habits new 2025-02 Run Read "Deep work"
habits new 2025-03 "Run, Read"
habits new
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			n := months.New{
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				n.Month = args[0]
				n.Habits = args[1:]
			}
			return output.HandleError(n.Do(context.Background()))
		},
	}
	options.InteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addUse(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:     "use [YYYY-MM]",
		Aliases: []string{"switch"},
		Short:   "Make a month the active month.",
		Example: `
habits use 2025-01
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeMonthArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			u := months.Use{
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				u.Month = args[0]
			}
			return output.HandleError(u.Do(context.Background()))
		},
	}
	options.InteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addMonths(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "months",
		Short: "List the months with data.",
		Example: `
habits months
habits months --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			l := months.List{
				JSON:    oo.JSON,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(context.Background()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addRemoveMonth(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	co := &options.ConfirmOptions{}
	cmd := &cobra.Command{
		Use:   "rm-month [YYYY-MM]",
		Short: "Delete a month and everything tracked in it.",
		Example: `
habits rm-month 2024-12
habits rm-month 2024-12 --yes
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeMonthArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			d := months.Delete{
				Yes:     co.Yes,
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				d.Month = args[0]
			}
			return output.HandleError(d.Do(context.Background()))
		},
	}
	options.InteractiveArgs(cmd, io)
	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}
