package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/storageprep"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete heavyweight intermediate artifacts",
	}

	cleanCmd.AddCommand(newCleanGeometryCommand(ctx))

	return cleanCmd
}

func newCleanGeometryCommand(ctx *commandContext) *cobra.Command {
	var author string
	var fromArchive bool
	var week string
	var archiveAuthor string

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Delete geometry directories from a workspace, staging, or the archive",
		Long: "Deletes the geometry directory inside every key. Without flags staging is\n" +
			"swept; --author sweeps that author's workspace; --archive sweeps the archive\n" +
			"tree, optionally narrowed by --week and --archive-author.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			if fromArchive && author != "" {
				return errors.New("--author and --archive are mutually exclusive")
			}
			if !fromArchive && (week != "" || archiveAuthor != "") {
				return errors.New("--week and --archive-author require --archive")
			}

			var summary storageprep.GeometrySummary
			switch {
			case fromArchive:
				summary = storageprep.DeleteGeometryInArchive(ctx.logger(), ctx.layout(), week, archiveAuthor)
			case author != "":
				summary = storageprep.DeleteGeometry(ctx.logger(), ctx.layout().AuthorOutputs(author))
			default:
				summary = storageprep.DeleteGeometry(ctx.logger(), ctx.layout().Staging())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned: %d\n", summary.Scanned)
			fmt.Fprintf(out, "Deleted: %d\n", summary.Deleted)
			fmt.Fprintf(out, "Missing: %d\n", summary.Missing)
			fmt.Fprintf(out, "Errors:  %d\n", summary.Errors)
			if summary.Errors > 0 {
				return fmt.Errorf("geometry sweep hit %d errors", summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Sweep this author's workspace instead of staging")
	cmd.Flags().BoolVar(&fromArchive, "archive", false, "Sweep the archive tree")
	cmd.Flags().StringVarP(&week, "week", "w", "", "Restrict the archive sweep to one week")
	cmd.Flags().StringVar(&archiveAuthor, "archive-author", "", "Restrict the archive sweep to one author")

	return cmd
}
