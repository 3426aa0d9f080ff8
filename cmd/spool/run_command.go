package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: sync, download, transcribe, summarize, mirror, pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout())
		},
	}
}

// runAll executes every stage in dependency order under an advisory file
// lock. A failed stage stops the sequence; everything already produced stays
// on disk and the next run resumes from there.
func runAll(ctx context.Context, c *commandContext, out io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run holds the lock at %s", cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := runSync(ctx, c, out); err != nil {
		return err
	}
	for _, build := range []stageBuilder{
		buildAudioStage,
		buildSubtitlesStage,
		buildNotesStage,
		buildTranscribeStage,
		buildSummarizeStage,
	} {
		if err := runStage(ctx, c, out, build); err != nil {
			return err
		}
	}
	if err := runMirror(ctx, c, out); err != nil {
		return err
	}
	return runPages(ctx, c, out)
}
