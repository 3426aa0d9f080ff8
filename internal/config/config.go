package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the catalog file and per-artifact directory configuration.
type Paths struct {
	CatalogFile   string `toml:"catalog_file"`
	AudioDir      string `toml:"audio_dir"`
	SubtitleDir   string `toml:"subtitle_dir"`
	NotesDir      string `toml:"notes_dir"`
	TranscriptDir string `toml:"transcript_dir"`
	SummaryDir    string `toml:"summary_dir"`
	PagesDir      string `toml:"pages_dir"`
	ArchiveDir    string `toml:"archive_dir"`
	StateDir      string `toml:"state_dir"`
	LogDir        string `toml:"log_dir"`
}

// Source contains the playlist reference and the listing filter.
type Source struct {
	PlaylistURL        string `toml:"playlist_url"`
	MaxDurationSeconds int    `toml:"max_duration_seconds"`
}

// Audio contains configuration for the primary media download stage.
type Audio struct {
	Quota        int    `toml:"quota"`
	PauseSeconds int    `toml:"pause_seconds"`
	FilePrefix   string `toml:"file_prefix"`
}

// Subtitles contains configuration for subtitle retrieval.
type Subtitles struct {
	Quota    int    `toml:"quota"`
	Language string `toml:"language"`
}

// Transcribe contains configuration for the transcription stage.
type Transcribe struct {
	Quota int    `toml:"quota"`
	Model string `toml:"model"`
}

// Summarize contains configuration for the summarization stage.
type Summarize struct {
	Quota            int     `toml:"quota"`
	DensityThreshold float64 `toml:"density_threshold"`
	MaxAttempts      int     `toml:"max_attempts"`
}

// Dates contains configuration for upload-date resolution.
type Dates struct {
	Quota int `toml:"quota"`
}

// Pages contains configuration for the paginated listing documents.
type Pages struct {
	Title      string `toml:"title"`
	BatchSize  int    `toml:"batch_size"`
	Descending bool   `toml:"descending"`
}

// LLM contains connection settings for the summarization collaborator.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	YtDlp   string `toml:"ytdlp"`
	Whisper string `toml:"whisper"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for spool.
//
// Configuration sections by subsystem:
//   - Paths: catalog file and per-artifact directories
//   - Source: playlist reference and listing filter
//   - Audio/Subtitles/Transcribe/Summarize/Dates: per-stage quotas and policy
//   - Pages: listing document batching
//   - LLM: summarization collaborator connection settings
//   - Tools: external binary names
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Source     Source     `toml:"source"`
	Audio      Audio      `toml:"audio"`
	Subtitles  Subtitles  `toml:"subtitles"`
	Transcribe Transcribe `toml:"transcribe"`
	Summarize  Summarize  `toml:"summarize"`
	Dates      Dates      `toml:"dates"`
	Pages      Pages      `toml:"pages"`
	LLM        LLM        `toml:"llm"`
	Tools      Tools      `toml:"tools"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/spool/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("spool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.catalog_file", &c.Paths.CatalogFile},
		{"paths.audio_dir", &c.Paths.AudioDir},
		{"paths.subtitle_dir", &c.Paths.SubtitleDir},
		{"paths.notes_dir", &c.Paths.NotesDir},
		{"paths.transcript_dir", &c.Paths.TranscriptDir},
		{"paths.summary_dir", &c.Paths.SummaryDir},
		{"paths.pages_dir", &c.Paths.PagesDir},
		{"paths.archive_dir", &c.Paths.ArchiveDir},
		{"paths.state_dir", &c.Paths.StateDir},
		{"paths.log_dir", &c.Paths.LogDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("SPOOL_LLM_API_KEY"))
	}
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
	if strings.TrimSpace(c.Pages.Title) == "" {
		c.Pages.Title = defaultPageTitle
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Tools.YtDlp == "" {
		c.Tools.YtDlp = defaultYtDlpBinary
	}
	if c.Tools.Whisper == "" {
		c.Tools.Whisper = defaultWhisperBinary
	}
	return nil
}

// EnsureDirectories creates the state and log directories. Artifact
// directories are lazily ensured by each stage.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LocalArtifactDirs returns the stage output directories the archive mirror
// copies from.
func (c *Config) LocalArtifactDirs() []string {
	return []string{
		c.Paths.AudioDir,
		c.Paths.SubtitleDir,
		c.Paths.NotesDir,
		c.Paths.TranscriptDir,
		c.Paths.SummaryDir,
	}
}

// LockPath returns the advisory run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "spool.lock")
}

// LogFilePath returns the pipeline log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "spool.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
