package main

import (
	"github.com/spf13/cobra"

	"stagehand/internal/transfer"
)

func newReleaseCommand(ctx *commandContext) *cobra.Command {
	var author string
	var keys []string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Hand staged keys back to an author's workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			rep := transfer.Release(ctx.logger(), ctx.layout(), ctx.rosterKeys(keys), author, ctx.archiveOwner())
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author whose workspace receives the keys")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to move (defaults to the configured roster)")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}
