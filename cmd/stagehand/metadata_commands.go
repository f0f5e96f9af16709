package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/catalog"
	"stagehand/internal/metadata"
)

func newMetadataCommand(ctx *commandContext) *cobra.Command {
	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Maintain the metadata sidecars of staged keys",
	}

	metadataCmd.AddCommand(newMetadataFillCommand(ctx))
	metadataCmd.AddCommand(newMetadataPushCommand(ctx))
	metadataCmd.AddCommand(newMetadataCheckCommand(ctx))

	return metadataCmd
}

func newMetadataFillCommand(ctx *commandContext) *cobra.Command {
	var author string
	var week string
	var keys []string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Stamp author, pending status, and week into each sidecar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			rep := metadata.Fill(ctx.logger(), ctx.layout().Staging(), ctx.rosterKeys(keys), author, week)
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author to record in each sidecar")
	cmd.Flags().StringVarP(&week, "week", "w", "", "Week to record in each sidecar (e.g. week_1)")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to fill (defaults to the configured roster)")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func newMetadataPushCommand(ctx *commandContext) *cobra.Command {
	var keys []string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Publish sidecars to the catalog and mark them synced",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rep := catalog.Publish(cmd.Context(), ctx.logger(), store, ctx.layout().Staging(), ctx.rosterKeys(keys))
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to publish (defaults to the configured roster)")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")

	return cmd
}

func newMetadataCheckCommand(ctx *commandContext) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report reconstruction status recorded in staged sidecars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checked := metadata.CheckStatus(ctx.layout().Staging(), cfg.Keys, keys)

			out := cmd.OutOrStdout()
			printKeySection(out, "Successful", checked.Success)
			printKeySection(out, "Not successful", checked.NotSuccess)
			printKeySection(out, "No metadata", checked.NoMetadata)
			printKeySection(out, "Unknown keys", checked.Unknown)

			snippet, err := checked.SuccessYAML()
			if err != nil {
				return err
			}
			if snippet != "" {
				fmt.Fprintln(out, "\nPaste into config.yaml to keep only successful keys:")
				fmt.Fprint(out, snippet)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to check (defaults to the configured roster)")

	return cmd
}
