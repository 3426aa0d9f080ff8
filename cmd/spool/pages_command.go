package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"spool/internal/pages"
)

func newPagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "Regenerate the paginated listing documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout())
		},
	}
}

func runPages(ctx context.Context, c *commandContext, out io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
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

	builder := pages.NewBuilder(cfg, logger)
	if err := builder.Build(cat); err != nil {
		return err
	}
	indexPath := filepath.Join(filepath.Dir(cfg.Paths.PagesDir), "README.md")
	if err := builder.WriteIndex(indexPath, cfg.Pages.Title, cat); err != nil {
		return err
	}

	fmt.Fprintf(out, "pages: rendered %d items into %s\n", cat.Len(), cfg.Paths.PagesDir)
	return nil
}
