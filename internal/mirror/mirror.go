// Package mirror copies finished artifacts into the archive directory. The
// archive is append-only from the mirror's point of view: files already
// present are never rewritten, so manual edits on the archive side survive.
package mirror

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"spool/internal/fileutil"
	"spool/internal/logging"
)

// Result summarizes one mirror pass.
type Result struct {
	Copied  int
	Skipped int
	Failed  int
}

// Run copies every regular file from the source directories into archiveDir,
// skipping names that already exist there. Per-file failures are logged and
// counted without stopping the pass.
func Run(ctx context.Context, sourceDirs []string, archiveDir string, logger *slog.Logger) (Result, error) {
	var res Result

	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "mirror"))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return res, err
	}

	for _, dir := range sourceDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Error("read source directory failed",
				logging.String("dir", dir),
				logging.Error(err))
			res.Failed++
			continue
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if !entry.Type().IsRegular() {
				continue
			}
			src := filepath.Join(dir, entry.Name())
			dst := filepath.Join(archiveDir, entry.Name())
			if fileutil.Exists(dst) {
				res.Skipped++
				continue
			}
			if err := fileutil.CopyFileAtomic(src, dst); err != nil {
				log.Error("copy failed",
					logging.String("file", entry.Name()),
					logging.Error(err))
				res.Failed++
				continue
			}
			res.Copied++
			log.Info("archived file", logging.String("file", entry.Name()))
		}
	}

	log.Info("mirror pass finished",
		logging.Int("copied", res.Copied),
		logging.Int("skipped", res.Skipped),
		logging.Int("failed", res.Failed))
	return res, nil
}
