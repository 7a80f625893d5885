package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the store and where months are kept.",
		Example: `
habits info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := so.Config()
			if err != nil {
				return err
			}
			p, err := so.Persistence()
			if err != nil {
				return err
			}
			s := info.Info{
				Config:      cfg,
				Persistence: p,
				Out:         cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
