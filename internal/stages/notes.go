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

// Notes builds the notes stage, which writes one text file per catalog item
// containing the watch URL. Notes are cheap local writes, so the stage runs
// unbounded and unpaced.
func Notes(cfg *config.Config, logger *slog.Logger) *stage.Runner {
	dir := cfg.Paths.NotesDir
	prefix := cfg.Audio.FilePrefix
	return &stage.Runner{
		Name:   "notes",
		Dir:    dir,
		Order:  stage.OldestFirst,
		Logger: logger,
		Exists: func(item catalog.Item) bool {
			return fileutil.Exists(filepath.Join(dir, NotesFileName(prefix, item.Idx)))
		},
		Produce: func(ctx context.Context, item catalog.Item) error {
			dest := filepath.Join(dir, NotesFileName(prefix, item.Idx))
			if err := fileutil.WriteFileAtomic(dest, []byte(item.URL), 0o644); err != nil {
				return services.Wrap(services.ErrProducer, "notes", "write", "write notes file", err)
			}
			return nil
		},
	}
}
