package stages

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/stage"
)

// SubtitleDownloader fetches a published subtitle track for a video.
type SubtitleDownloader interface {
	DownloadSubtitle(ctx context.Context, videoID, lang, dest string) error
}

// Subtitles builds the subtitle download stage. Videos without a published
// track in the configured language are skipped without consuming quota; most
// uploads never get one, and treating that as failure would stall the run.
func Subtitles(cfg *config.Config, downloader SubtitleDownloader, logger *slog.Logger) *stage.Runner {
	dir := cfg.Paths.SubtitleDir
	prefix := cfg.Audio.FilePrefix
	lang := cfg.Subtitles.Language
	return &stage.Runner{
		Name:   "subtitles",
		Dir:    dir,
		Order:  stage.OldestFirst,
		Quota:  cfg.Subtitles.Quota,
		Pacer:  stage.NewRatePacer(time.Duration(cfg.Audio.PauseSeconds) * time.Second),
		Logger: logger,
		Exists: func(item catalog.Item) bool {
			return fileutil.Exists(filepath.Join(dir, SubtitleFileName(prefix, item.Idx)))
		},
		Produce: func(ctx context.Context, item catalog.Item) error {
			dest := filepath.Join(dir, SubtitleFileName(prefix, item.Idx))
			return downloader.DownloadSubtitle(ctx, item.ID, lang, dest)
		},
	}
}
