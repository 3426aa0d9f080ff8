package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var oldest bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			cat, err := store.Load()
			if err != nil {
				return err
			}

			items := cat.NewestFirst()
			if oldest {
				items = cat.OldestFirst()
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderItemTable(items))
			fmt.Fprintf(out, "%d of %d items\n", len(items), cat.Len())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().BoolVar(&oldest, "oldest", false, "List oldest items first")
	return cmd
}
