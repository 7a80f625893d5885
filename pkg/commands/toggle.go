package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/commands/options"
	"tableflip.dev/habits/pkg/runner/toggle"
)

func addToggle(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:     "toggle <habit> [day]",
		Aliases: []string{"tick", "x"},
		Short:   "Mark a day done, or not done if it already was.",
		Long: `Flip a day of a habit. The habit is its number in "habits list" or its
exact name. The day defaults to today.`,
		Example: `
habits toggle 1
habits toggle Read 14
habits toggle --month 2025-01 2 31
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a habit")
			}
			if len(args) > 2 {
				return errors.New("expected a habit and an optional day")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			day := time.Now().Day()
			if len(args) == 2 {
				d, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("day must be a number, got %q", args[1])
				}
				day = d
			}
			oo.Out = cmd.OutOrStdout()
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			t := toggle.Toggle{
				Month:   mo.Month,
				Habit:   args[0],
				Day:     day,
				JSON:    oo.JSON,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(t.Do(context.Background()))
		},
	}
	options.AddMonthArg(cmd, mo, monthCompletions)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
