package main

import (
	"github.com/spf13/cobra"

	"stagehand/internal/storageprep"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var keys []string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Prune and consolidate staged keys for long-term storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			rep := storageprep.Prepare(ctx.logger(), ctx.layout().Staging(), ctx.rosterKeys(keys))
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to prepare (defaults to the configured roster)")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")

	return cmd
}
