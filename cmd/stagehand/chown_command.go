package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/logging"
	"stagehand/internal/ownership"
)

func newChownCommand(ctx *commandContext) *cobra.Command {
	var uid, gid int

	cmd := &cobra.Command{
		Use:   "chown [path]",
		Short: "Recursively re-own the staging tree (or a given path)",
		Long: "Applies the configured staging owner to the staging tree, or to the given\n" +
			"path. HOST_UID and HOST_GID override the configured owner, and --uid/--gid\n" +
			"override both. Running without privileges reports the failures but still\n" +
			"walks the whole tree.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			owner := ownership.FromEnv(ctx.stagingOwner())
			if cmd.Flags().Changed("uid") {
				owner.UID = uid
			}
			if cmd.Flags().Changed("gid") {
				owner.GID = gid
			}
			path := ctx.layout().Staging()
			if len(args) > 0 {
				path = args[0]
			}

			ctx.logger().Info("re-owning tree",
				logging.String("path", path),
				logging.String("owner", owner.String()),
			)
			if err := ownership.ChownRecursive(path, owner); err != nil {
				return fmt.Errorf("chown %s to %s: %w", path, owner, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Re-owned %s to %s\n", path, owner)
			return nil
		},
	}

	cmd.Flags().IntVar(&uid, "uid", 0, "Owner uid (overrides config and HOST_UID)")
	cmd.Flags().IntVar(&gid, "gid", 0, "Owner gid (overrides config and HOST_GID)")

	return cmd
}
