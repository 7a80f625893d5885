package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/commands/options"
	"tableflip.dev/habits/pkg/runner/habits"
)

func parseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || i < 1 {
		return 0, fmt.Errorf("habit index must be a number starting at 1, got %q", raw)
	}
	return i, nil
}

func addHabitAdd(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	io := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit to a month.",
		Example: `
habits add Stretch
habits add --month 2025-01 "Deep work"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			a := habits.Add{
				Month:   mo.Month,
				Name:    strings.Join(args, " "),
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(a.Do(context.Background()))
		},
	}
	options.AddMonthArg(cmd, mo, monthCompletions)
	options.InteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addHabitRename(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	io := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:   "rename <index> <name>",
		Short: "Rename a habit, keeping its tracked days.",
		Example: `
habits rename 2 "Read 20 pages"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			r := habits.Rename{
				Month:   mo.Month,
				Index:   index,
				Name:    strings.Join(args[1:], " "),
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(r.Do(context.Background()))
		},
	}
	options.AddMonthArg(cmd, mo, monthCompletions)
	options.InteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addHabitRemove(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	io := &options.InteractiveOptions{}
	co := &options.ConfirmOptions{}
	cmd := &cobra.Command{
		Use:   "rm <index>",
		Short: "Delete a habit and its tracked days.",
		Example: `
habits rm 3
habits rm 3 --month 2025-01 --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			svc, err := so.Service()
			if err != nil {
				return output.HandleError(err)
			}
			d := habits.Delete{
				Month:   mo.Month,
				Index:   index,
				Yes:     co.Yes,
				Service: svc,
				Prompt:  io.Collector(cmd),
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(d.Do(context.Background()))
		},
	}
	options.AddMonthArg(cmd, mo, monthCompletions)
	options.InteractiveArgs(cmd, io)
	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}

func addHabitList(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the habits of a month.",
		Example: `
habits list
habits list --month 2025-01 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			l := habits.List{
				Month:   mo.Month,
				JSON:    oo.JSON,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(context.Background()))
		},
	}
	options.AddMonthArg(cmd, mo, monthCompletions)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
