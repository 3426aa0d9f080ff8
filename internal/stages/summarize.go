package stages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/logging"
	"spool/internal/services"
	"spool/internal/stage"
	"spool/internal/textutil"
)

// Summarizer produces a markdown summary for transcript text.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// SummarizeStage builds the summarization stage. Each transcript is sent to
// the model until the returned summary meets the configured Han character
// density, bounded by the attempt budget. A summary that never meets the bar
// is a quality threshold failure, not a skip, so it surfaces in the run log.
func SummarizeStage(cfg *config.Config, summarizer Summarizer, logger *slog.Logger) *stage.Runner {
	dir := cfg.Paths.SummaryDir
	transcriptDir := cfg.Paths.TranscriptDir
	threshold := cfg.Summarize.DensityThreshold
	attempts := cfg.Summarize.MaxAttempts
	stageLogger := logging.NewComponentLogger(logger, "summarize")
	return &stage.Runner{
		Name:   "summarize",
		Dir:    dir,
		Order:  stage.OldestFirst,
		Quota:  cfg.Summarize.Quota,
		Logger: logger,
		Exists: func(item catalog.Item) bool {
			return fileutil.Exists(filepath.Join(dir, SummaryFileName(item.ID)))
		},
		Produce: func(ctx context.Context, item catalog.Item) error {
			log := logging.WithContext(ctx, stageLogger)
			source := filepath.Join(transcriptDir, TranscriptFileName(item.ID))
			transcript, err := os.ReadFile(source)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return services.Wrap(services.ErrNotFound, "summarize", "run", "transcript not produced yet", nil)
				}
				return services.Wrap(services.ErrProducer, "summarize", "run", "read transcript", err)
			}

			summary, attempt, err := stage.Retry(ctx, attempts,
				func(ctx context.Context) (string, error) {
					return summarizer.Summarize(ctx, string(transcript))
				},
				func(candidate string) bool {
					ratio := textutil.ScriptRatio(candidate)
					if ratio >= threshold {
						return true
					}
					log.Warn("summary density below threshold",
						logging.Float64("ratio", ratio),
						logging.Float64("threshold", threshold))
					return false
				})
			if err != nil {
				if errors.Is(err, stage.ErrRetryBudget) {
					return services.Wrap(services.ErrQualityThreshold, "summarize", "run",
						fmt.Sprintf("density below %.2f after %d attempts", threshold, attempt), err)
				}
				return err
			}

			dest := filepath.Join(dir, SummaryFileName(item.ID))
			if err := fileutil.WriteFileAtomic(dest, []byte(summary+"\n"), 0o644); err != nil {
				return services.Wrap(services.ErrProducer, "summarize", "run", "write summary", err)
			}
			return nil
		},
	}
}
