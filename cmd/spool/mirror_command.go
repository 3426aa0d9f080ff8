package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spool/internal/mirror"
)

func newMirrorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Copy new artifacts into the archive directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout())
		},
	}
}

func runMirror(ctx context.Context, c *commandContext, out io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	res, err := mirror.Run(ctx, cfg.LocalArtifactDirs(), cfg.Paths.ArchiveDir, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "mirror: copied %d, skipped %d, failed %d\n", res.Copied, res.Skipped, res.Failed)
	return nil
}
