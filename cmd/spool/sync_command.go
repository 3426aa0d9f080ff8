package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spool/internal/catalog"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Update the catalog from the playlist and resolve upload dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout())
		},
	}
}

func runSync(ctx context.Context, c *commandContext, out io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	dl, err := c.ytdlpService()
	if err != nil {
		return err
	}
	store, err := c.catalogStore()
	if err != nil {
		return err
	}

	cat, err := store.Load()
	if err != nil {
		return err
	}

	discovered, err := dl.ListPlaylist(ctx, cfg.Source.PlaylistURL, cfg.Source.MaxDurationSeconds)
	if err != nil {
		return err
	}

	added := catalog.Merge(cat, discovered)
	if len(added) > 0 {
		if err := store.Save(cat); err != nil {
			return err
		}
	}

	resolved, err := store.ResolveDates(ctx, cat, dl.UploadDate, cfg.Dates.Quota)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Catalog: %d items (%d added, %d dates resolved)\n", cat.Len(), len(added), resolved)
	return nil
}
