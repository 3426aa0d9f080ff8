package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/stages"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-stage artifact progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			cat, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %d items (%s)\n", cat.Len(), cfg.Paths.CatalogFile)
			fmt.Fprintln(out, renderProgressTable(cat.Len(), stageProgress(cfg, cat)))
			return nil
		},
	}
}

type progressLine struct {
	name string
	done int
}

func stageProgress(cfg *config.Config, cat *catalog.Catalog) []progressLine {
	prefix := cfg.Audio.FilePrefix
	lines := []progressLine{
		{name: "audio"}, {name: "subtitles"}, {name: "notes"}, {name: "transcribe"}, {name: "summarize"},
	}
	for _, item := range cat.Items {
		checks := []struct {
			line int
			path string
		}{
			{0, filepath.Join(cfg.Paths.AudioDir, stages.AudioFileName(prefix, item.Idx))},
			{1, filepath.Join(cfg.Paths.SubtitleDir, stages.SubtitleFileName(prefix, item.Idx))},
			{2, filepath.Join(cfg.Paths.NotesDir, stages.NotesFileName(prefix, item.Idx))},
			{3, filepath.Join(cfg.Paths.TranscriptDir, stages.TranscriptFileName(item.ID))},
			{4, filepath.Join(cfg.Paths.SummaryDir, stages.SummaryFileName(item.ID))},
		}
		for _, check := range checks {
			if fileutil.Exists(check.path) {
				lines[check.line].done++
			}
		}
	}
	return lines
}
