package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"spool/internal/services"
)

// DefaultBinary is the whisper executable resolved from PATH when the
// configuration does not name one.
const DefaultBinary = "whisper"

// DefaultModel is used when no model is configured.
const DefaultModel = "large-v3-turbo"

// Service wraps the whisper command line tool for local speech-to-text.
type Service struct {
	binary        string
	model         string
	language      string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service. language may be empty to let the
// model auto-detect.
func NewService(binary, model, language string) *Service {
	if binary == "" {
		binary = DefaultBinary
	}
	if model == "" {
		model = DefaultModel
	}
	return &Service{binary: binary, model: model, language: language}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.model
}

func (s *Service) run(ctx context.Context, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs whisper against an audio file and returns the transcript
// text. Output files land in a private working directory that is removed
// before returning.
func (s *Service) Transcribe(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", services.Wrap(services.ErrConfiguration, "transcribe", "run", "source path required", nil)
	}
	workDir, err := os.MkdirTemp("", "spool-whisper-")
	if err != nil {
		return "", services.Wrap(services.ErrProducer, "transcribe", "run", "create working directory", err)
	}
	defer os.RemoveAll(workDir)

	args := []string{
		source,
		"--model", s.model,
		"--output_format", "txt",
		"--output_dir", workDir,
		"--verbose", "False",
	}
	if s.language != "" {
		args = append(args, "--language", s.language)
	}
	if err := s.run(ctx, args...); err != nil {
		return "", services.Wrap(services.ErrProducer, "transcribe", "run", "whisper failed", err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	data, err := os.ReadFile(filepath.Join(workDir, base+".txt"))
	if err != nil {
		return "", services.Wrap(services.ErrProducer, "transcribe", "run", "read transcript output", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", services.Wrap(services.ErrProducer, "transcribe", "run", "empty transcript", nil)
	}
	return text, nil
}
