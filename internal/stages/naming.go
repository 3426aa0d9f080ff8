package stages

import "fmt"

// Per-item artifacts derive their file names two ways. Listener-facing files
// (audio, subtitles, notes) carry the catalog index so they sort in catalog
// order on a player or drive. Text artifacts (transcripts, summaries) are
// keyed by video ID so page rendering can locate them without the catalog.

// AudioExtensions lists the accepted audio container extensions. Downloads
// produce mp3, but m4a files from earlier tooling still count as present.
var AudioExtensions = []string{".mp3", ".m4a"}

// AudioBase returns the audio artifact name for a catalog index, without
// extension.
func AudioBase(prefix string, idx int) string {
	return fmt.Sprintf("%s_%03d", prefix, idx)
}

// AudioFileName returns the audio artifact name for a catalog index.
func AudioFileName(prefix string, idx int) string {
	return AudioBase(prefix, idx) + ".mp3"
}

// SubtitleFileName returns the subtitle artifact name for a catalog index.
func SubtitleFileName(prefix string, idx int) string {
	return fmt.Sprintf("%s_%03d.srt", prefix, idx)
}

// NotesFileName returns the notes artifact name for a catalog index.
func NotesFileName(prefix string, idx int) string {
	return fmt.Sprintf("%s_%03d.Notes.txt", prefix, idx)
}

// TranscriptFileName returns the transcript artifact name for a video ID.
func TranscriptFileName(videoID string) string {
	return videoID + ".md"
}

// SummaryFileName returns the summary artifact name for a video ID.
func SummaryFileName(videoID string) string {
	return videoID + ".md"
}
