package stages

import (
	"context"
	"log/slog"
	"path/filepath"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/services"
	"spool/internal/stage"
)

// Transcriber converts an audio file to transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, source string) (string, error)
}

// TranscribeStage builds the transcription stage. It walks newest items
// first, requires the audio artifact to already be on disk, and writes the
// transcript as markdown keyed by video ID.
func TranscribeStage(cfg *config.Config, transcriber Transcriber, logger *slog.Logger) *stage.Runner {
	dir := cfg.Paths.TranscriptDir
	audioDir := cfg.Paths.AudioDir
	prefix := cfg.Audio.FilePrefix
	return &stage.Runner{
		Name:   "transcribe",
		Dir:    dir,
		Order:  stage.NewestFirst,
		Quota:  cfg.Transcribe.Quota,
		Logger: logger,
		Exists: func(item catalog.Item) bool {
			return fileutil.Exists(filepath.Join(dir, TranscriptFileName(item.ID)))
		},
		Produce: func(ctx context.Context, item catalog.Item) error {
			var source string
			base := filepath.Join(audioDir, AudioBase(prefix, item.Idx))
			for _, ext := range AudioExtensions {
				if fileutil.Exists(base + ext) {
					source = base + ext
					break
				}
			}
			if source == "" {
				return services.Wrap(services.ErrNotFound, "transcribe", "run", "audio not downloaded yet", nil)
			}
			text, err := transcriber.Transcribe(ctx, source)
			if err != nil {
				return err
			}
			dest := filepath.Join(dir, TranscriptFileName(item.ID))
			if err := fileutil.WriteFileAtomic(dest, []byte(text+"\n"), 0o644); err != nil {
				return services.Wrap(services.ErrProducer, "transcribe", "run", "write transcript", err)
			}
			return nil
		},
	}
}
