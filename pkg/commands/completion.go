package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(habits completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(habits completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	}

	topLevel.AddCommand(cmd)
}

func monthCompletions(toComplete string) []string {
	p, err := so.Persistence()
	if err != nil {
		return nil
	}
	keys, err := p.MonthKeys(context.Background())
	if err != nil {
		return nil
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k.String(), toComplete) {
			out = append(out, k.String())
		}
	}
	return out
}

// completeMonthArg completes the first positional argument with stored months.
func completeMonthArg(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return monthCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}
