package options

import (
	"github.com/spf13/cobra"
)

// MonthOptions selects the month a habit command works on.
type MonthOptions struct {
	Month string
}

func AddMonthArg(cmd *cobra.Command, o *MonthOptions, complete func(string) []string) {
	cmd.Flags().StringVarP(&o.Month, "month", "m", "",
		`Month to work on as YYYY-MM, defaults to the active month.`)
	if complete != nil {
		_ = cmd.RegisterFlagCompletionFunc("month", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return complete(toComplete), cobra.ShellCompDirectiveNoFileComp
		})
	}
}

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArg(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		`Skip the confirmation prompt.`)
}
