// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"spool/internal/config"
)

// NewConfig returns a validated configuration rooted in a fresh temporary
// directory, suitable for exercising stages and commands in tests.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CatalogFile = filepath.Join(base, "catalog.csv")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.SubtitleDir = filepath.Join(base, "subtitles")
	cfg.Paths.NotesDir = filepath.Join(base, "notes")
	cfg.Paths.TranscriptDir = filepath.Join(base, "transcripts")
	cfg.Paths.SummaryDir = filepath.Join(base, "summaries")
	cfg.Paths.PagesDir = filepath.Join(base, "pages")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "log")
	cfg.Source.PlaylistURL = "https://example.test/playlist"
	cfg.LLM.APIKey = "test-key"
	cfg.Audio.PauseSeconds = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
