package stages

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/services"
	"spool/internal/stage"
)

// AudioDownloader fetches the audio track of a video to a local path.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, videoID, dest string) error
}

// Audio builds the audio download stage. Downloads land in a temporary file
// that is renamed into place only after the downloader reports success, and
// the whole run aborts on the first hard failure so a broken network or an
// upstream block does not burn through the remaining items.
func Audio(cfg *config.Config, downloader AudioDownloader, logger *slog.Logger) *stage.Runner {
	dir := cfg.Paths.AudioDir
	prefix := cfg.Audio.FilePrefix
	return &stage.Runner{
		Name:           "audio",
		Dir:            dir,
		Order:          stage.OldestFirst,
		Quota:          cfg.Audio.Quota,
		AbortOnFailure: true,
		Pacer:          stage.NewRatePacer(time.Duration(cfg.Audio.PauseSeconds) * time.Second),
		Logger:         logger,
		Exists: func(item catalog.Item) bool {
			return fileutil.ExistsAny(filepath.Join(dir, AudioBase(prefix, item.Idx)), AudioExtensions)
		},
		Produce: func(ctx context.Context, item catalog.Item) error {
			dest := filepath.Join(dir, AudioFileName(prefix, item.Idx))
			tmp := filepath.Join(dir, "tmp.mp3")
			if err := fileutil.RemoveIfExists(tmp); err != nil {
				return services.Wrap(services.ErrProducer, "audio", "download", "clear stale temp file", err)
			}
			if err := downloader.DownloadAudio(ctx, item.ID, tmp); err != nil {
				_ = fileutil.RemoveIfExists(tmp)
				return err
			}
			if err := os.Rename(tmp, dest); err != nil {
				_ = fileutil.RemoveIfExists(tmp)
				return services.Wrap(services.ErrProducer, "audio", "download", "rename into place", err)
			}
			return nil
		},
	}
}
