package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"spool/internal/catalog"
	"spool/internal/services"
)

// DefaultBinary is the yt-dlp executable resolved from PATH when the
// configuration does not name one.
const DefaultBinary = "yt-dlp"

// DateUnknown mirrors the catalog sentinel for items whose upload date the
// extractor does not report.
const DateUnknown = catalog.DateUnknown

// Service wraps the yt-dlp command line tool for playlist enumeration,
// audio and subtitle downloads, and upload date lookups.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates a yt-dlp service using the given binary.
func NewService(binary string) *Service {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

func (s *Service) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		if stderr != "" {
			return nil, fmt.Errorf("%s: %w: %s", s.binary, err, stderr)
		}
		return nil, fmt.Errorf("%s: %w", s.binary, err)
	}
	return output, nil
}

type playlistEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
}

type playlistPayload struct {
	Entries []playlistEntry `json:"entries"`
}

// ListPlaylist enumerates a playlist without downloading anything. Entries
// with no reported duration or longer than maxDurationSeconds are filtered
// out; live streams and very long videos report no flat duration, which keeps
// them out of the catalog.
func (s *Service) ListPlaylist(ctx context.Context, playlistURL string, maxDurationSeconds int) ([]catalog.RawItem, error) {
	output, err := s.run(ctx,
		"--flat-playlist",
		"--skip-download",
		"--dump-single-json",
		playlistURL,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrProducer, "sync", "list playlist", "extract playlist", err)
	}

	var payload playlistPayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, services.Wrap(services.ErrProducer, "sync", "list playlist", "parse playlist json", err)
	}

	items := make([]catalog.RawItem, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		duration := int(entry.Duration)
		if duration <= 0 {
			continue
		}
		if maxDurationSeconds > 0 && duration > maxDurationSeconds {
			continue
		}
		items = append(items, catalog.RawItem{
			ID:         entry.ID,
			Title:      entry.Title,
			UploadDate: NormalizeUploadDate(entry.UploadDate),
			Duration:   duration,
		})
	}
	return items, nil
}

// DownloadAudio downloads the best audio track for a video and extracts it to
// an mp3 at dest. Callers pass a temporary path and rename after success.
func (s *Service) DownloadAudio(ctx context.Context, videoID, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrProducer, "audio", "download", "ensure directory", err)
	}
	_, err := s.run(ctx,
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--no-progress",
		"--output", dest,
		catalog.WatchURL(videoID),
	)
	if err != nil {
		return services.Wrap(services.ErrProducer, "audio", "download", "download audio", err)
	}
	if _, statErr := os.Stat(dest); statErr != nil {
		return services.Wrap(services.ErrProducer, "audio", "download", "downloaded file missing", statErr)
	}
	return nil
}

// DownloadSubtitle fetches the published subtitle track for a video in the
// given language and writes it as SRT to dest. Videos without a track in that
// language return a not-found error so callers can skip them.
func (s *Service) DownloadSubtitle(ctx context.Context, videoID, lang, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrProducer, "subtitles", "download", "ensure directory", err)
	}

	base := strings.TrimSuffix(dest, filepath.Ext(dest))
	_, err := s.run(ctx,
		"--skip-download",
		"--write-subs",
		"--sub-langs", lang,
		"--convert-subs", "srt",
		"--no-progress",
		"--output", base,
		catalog.WatchURL(videoID),
	)
	if err != nil {
		return services.Wrap(services.ErrProducer, "subtitles", "download", "download subtitle", err)
	}

	// yt-dlp names subtitle output <base>.<lang>.srt and exits zero even when
	// the video has no matching track.
	produced := fmt.Sprintf("%s.%s.srt", base, lang)
	if _, statErr := os.Stat(produced); statErr != nil {
		return services.Wrap(services.ErrNotFound, "subtitles", "download",
			fmt.Sprintf("no %s subtitle track", lang), nil)
	}
	if err := os.Rename(produced, dest); err != nil {
		return services.Wrap(services.ErrProducer, "subtitles", "download", "rename subtitle", err)
	}
	return nil
}

type videoInfo struct {
	UploadDate string `json:"upload_date"`
}

// UploadDate resolves the upload date of a single video in ISO form, or the
// unknown sentinel when the extractor does not report one.
func (s *Service) UploadDate(ctx context.Context, videoID string) (string, error) {
	output, err := s.run(ctx,
		"--skip-download",
		"--dump-single-json",
		catalog.WatchURL(videoID),
	)
	if err != nil {
		return "", services.Wrap(services.ErrProducer, "sync", "upload date", "extract video info", err)
	}
	var info videoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return "", services.Wrap(services.ErrProducer, "sync", "upload date", "parse video json", err)
	}
	return NormalizeUploadDate(info.UploadDate), nil
}

// NormalizeUploadDate converts yt-dlp's YYYYMMDD upload dates to ISO
// YYYY-MM-DD. Empty or malformed values normalize to the unknown sentinel.
func NormalizeUploadDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 8 {
		return DateUnknown
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return DateUnknown
		}
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
}
