package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/archive"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Move keys between staging and the week/author archive",
	}

	archiveCmd.AddCommand(newArchiveStoreCommand(ctx))
	archiveCmd.AddCommand(newArchiveRestoreCommand(ctx))
	archiveCmd.AddCommand(newArchiveCheckBackgroundCommand(ctx))

	return archiveCmd
}

func newArchiveStoreCommand(ctx *commandContext) *cobra.Command {
	var keys []string
	var requireSuccess bool
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Archive staged keys under their sidecar's week and author",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rep := archive.Store(ctx.logger(), ctx.layout(), ctx.rosterKeys(keys), archive.StoreOptions{
				RequireSuccess: requireSuccess || cfg.Pipeline.RequireSuccess,
				Owner:          ctx.archiveOwner(),
			})
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to archive (defaults to the configured roster)")
	cmd.Flags().BoolVar(&requireSuccess, "require-success", false, "Only archive keys with a successful reconstruction status")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")

	return cmd
}

func newArchiveRestoreCommand(ctx *commandContext) *cobra.Command {
	var keys []string
	var overwrite bool
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Pull archived keys back into staging",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			rep := archive.Restore(ctx.logger(), ctx.layout(), ctx.rosterKeys(keys), archive.RestoreOptions{
				Overwrite: overwrite,
				Owner:     ctx.stagingOwner(),
			})
			return finishReport(cmd, rep, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to restore (defaults to the configured roster)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing staging copy")
	cmd.Flags().StringVarP(&outputJSON, "output-json", "o", "", "Write succeeded keys to this JSON file")

	return cmd
}

func newArchiveCheckBackgroundCommand(ctx *commandContext) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "check-background",
		Short: "Report which archived keys have a simulation background image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			checked := archive.CheckBackground(ctx.logger(), ctx.layout(), ctx.rosterKeys(keys))

			out := cmd.OutOrStdout()
			printKeySection(out, "Background present", checked.Found)
			printKeySection(out, "Background missing", checked.Missing)
			printKeySection(out, "Not in archive", checked.NotInTree)
			printKeySection(out, "Ambiguous (multiple matches)", checked.Ambiguous)

			if len(checked.Missing) > 0 {
				return fmt.Errorf("%d archived keys lack a background image", len(checked.Missing))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Keys to check (defaults to the configured roster)")

	return cmd
}
