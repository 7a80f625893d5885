package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/habits/pkg/commands/options"
)

var (
	so     = &options.StoreOptions{}
	output = &options.OutputOptions{}
)

func New() *cobra.Command {
	so = &options.StoreOptions{}

	cmd := &cobra.Command{
		Use:           "habits",
		SilenceErrors: true,
		Short:         base.Wrap80("Track monthly habits on the command line, one grid per month with a cell for every day."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return so.Setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return so.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddStoreArgs(cmd, so)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addNew(topLevel)
	addUse(topLevel)
	addMonths(topLevel)
	addRemoveMonth(topLevel)
	addShow(topLevel)
	addHabitAdd(topLevel)
	addHabitRename(topLevel)
	addHabitRemove(topLevel)
	addHabitList(topLevel)
	addToggle(topLevel)
	addInfo(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
