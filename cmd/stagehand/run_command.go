package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var author string
	var week string
	var fromStep int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: intake, metadata, storage, publish, archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(cfg, ctx.logger())
			res, err := runner.Run(cmd.Context(), pipeline.Options{
				Author:   author,
				Week:     week,
				FromStep: pipeline.StepID(fromStep),
				Out:      cmd.OutOrStdout(),
			})
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s\nLogs: %s\n", res.RunID, res.LogDir)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author whose keys to run through the pipeline")
	cmd.Flags().StringVarP(&week, "week", "w", "", "Week to record in metadata (e.g. week_1)")
	cmd.Flags().IntVarP(&fromStep, "from-step", "s", 1,
		"Step to start from (1=intake 2=metadata 3=storage 4=publish 5=archive)")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}
