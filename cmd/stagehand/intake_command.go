package main

import (
	"github.com/spf13/cobra"

	"stagehand/internal/transfer"
)

func newIntakeCommand(ctx *commandContext) *cobra.Command {
	var author string
	var keys []string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Move an author's finished keys into staging",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			roster := keys
			if len(roster) == 0 {
				roster = cfg.IntakeKeys()
			}
			sortKeysNatural(roster)

			rep := transfer.Intake(ctx.logger(), ctx.layout(), roster, author, ctx.stagingOwner())
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author whose workspace to pull from")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to move (defaults to the configured roster)")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}
