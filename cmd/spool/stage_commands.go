package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"spool/internal/config"
	"spool/internal/stage"
	"spool/internal/stages"
)

type stageBuilder func(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error)

// runStage loads the catalog, runs one stage over it, and reports the tally.
func runStage(ctx context.Context, c *commandContext, out io.Writer, build stageBuilder) error {
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

	runner, err := build(c, cfg, logger)
	if err != nil {
		return err
	}

	res, runErr := runner.Run(ctx, cat.Items)
	fmt.Fprintf(out, "%s: produced %d, skipped %d, failed %d\n",
		runner.Name, res.Produced, res.Skipped, res.Failed)
	return runErr
}

func buildAudioStage(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error) {
	dl, err := c.ytdlpService()
	if err != nil {
		return nil, err
	}
	return stages.Audio(cfg, dl, logger), nil
}

func buildSubtitlesStage(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error) {
	dl, err := c.ytdlpService()
	if err != nil {
		return nil, err
	}
	return stages.Subtitles(cfg, dl, logger), nil
}

func buildNotesStage(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error) {
	return stages.Notes(cfg, logger), nil
}

func buildTranscribeStage(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error) {
	transcriber, err := c.whisperService()
	if err != nil {
		return nil, err
	}
	return stages.TranscribeStage(cfg, transcriber, logger), nil
}

func buildSummarizeStage(c *commandContext, cfg *config.Config, logger *slog.Logger) (*stage.Runner, error) {
	client, err := c.llmClient()
	if err != nil {
		return nil, err
	}
	return stages.SummarizeStage(cfg, client, logger), nil
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audio",
		Short: "Download missing audio artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout(), buildAudioStage)
		},
	}
}

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "subtitles",
		Short: "Download missing subtitle tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout(), buildSubtitlesStage)
		},
	}
}

func newNotesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Write missing notes files with watch URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout(), buildNotesStage)
		},
	}
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe downloaded audio to text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout(), buildTranscribeStage)
		},
	}
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Summarize transcripts with the configured model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(ctx.runContext(cmd.Context()), ctx, cmd.OutOrStdout(), buildSummarizeStage)
		},
	}
}
