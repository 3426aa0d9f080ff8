package stages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"spool/internal/catalog"
	"spool/internal/logging"
	"spool/internal/services"
	"spool/internal/testsupport"
)

func catalogItems() []catalog.Item {
	return []catalog.Item{
		{Idx: 1, ID: "vid01", Title: "first", URL: catalog.WatchURL("vid01"), Date: "2024-01-01"},
		{Idx: 2, ID: "vid02", Title: "second", URL: catalog.WatchURL("vid02"), Date: catalog.DateUnknown},
		{Idx: 3, ID: "vid03", Title: "third", URL: catalog.WatchURL("vid03"), Date: "2024-02-10"},
	}
}

type fakeAudioDownloader struct {
	calls []string
	fail  map[string]error
}

func (f *fakeAudioDownloader) DownloadAudio(ctx context.Context, videoID, dest string) error {
	f.calls = append(f.calls, videoID)
	if err := f.fail[videoID]; err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("audio for "+videoID), 0o644)
}

func TestAudioStageDownloadsViaTempFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dl := &fakeAudioDownloader{}
	runner := Audio(cfg, dl, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 3 {
		t.Fatalf("produced %d, want 3", res.Produced)
	}
	for idx := 1; idx <= 3; idx++ {
		path := filepath.Join(cfg.Paths.AudioDir, AudioFileName(cfg.Audio.FilePrefix, idx))
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing audio artifact %s: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.AudioDir, "tmp.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp download file left behind")
	}
}

func TestAudioStageAbortsOnFailureAndCleansTemp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dl := &fakeAudioDownloader{fail: map[string]error{"vid02": errors.New("HTTP 403")}}
	runner := Audio(cfg, dl, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems())
	if err == nil {
		t.Fatal("expected abort error")
	}
	if res.Produced != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(dl.calls) != 2 {
		t.Fatalf("calls = %v, want download stop after vid02", dl.calls)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.AudioDir, "tmp.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp download file left behind after failure")
	}
}

func TestAudioStageResumes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dl := &fakeAudioDownloader{}
	runner := Audio(cfg, dl, logging.NewNop())

	if _, err := runner.Run(context.Background(), catalogItems()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	dl.calls = nil
	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Produced != 0 || len(dl.calls) != 0 {
		t.Fatalf("second run re-downloaded: %+v calls=%v", res, dl.calls)
	}
}

type fakeSubtitleDownloader struct {
	missing map[string]bool
	langs   []string
}

func (f *fakeSubtitleDownloader) DownloadSubtitle(ctx context.Context, videoID, lang, dest string) error {
	f.langs = append(f.langs, lang)
	if f.missing[videoID] {
		return services.Wrap(services.ErrNotFound, "subtitles", "download", "no track", nil)
	}
	return os.WriteFile(dest, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0o644)
}

func TestSubtitleStageSkipsMissingTracks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dl := &fakeSubtitleDownloader{missing: map[string]bool{"vid02": true}}
	runner := Subtitles(cfg, dl, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 2 || res.Skipped != 1 || res.Failed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, lang := range dl.langs {
		if lang != cfg.Subtitles.Language {
			t.Fatalf("language = %q, want %q", lang, cfg.Subtitles.Language)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.SubtitleDir, SubtitleFileName(cfg.Audio.FilePrefix, 2))); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("skipped item should have no subtitle artifact")
	}
}

func TestNotesStageWritesWatchURLs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := Notes(cfg, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 3 {
		t.Fatalf("produced %d, want 3", res.Produced)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Paths.NotesDir, NotesFileName(cfg.Audio.FilePrefix, 2)))
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	if string(data) != catalog.WatchURL("vid02") {
		t.Fatalf("notes content = %q", data)
	}

	second, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Produced != 0 {
		t.Fatalf("second run produced %d, want 0", second.Produced)
	}
}

type fakeTranscriber struct {
	sources []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, source string) (string, error) {
	f.sources = append(f.sources, source)
	return "транскрипт 本文", nil
}

func TestTranscribeStageRequiresAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Only vid03 has its audio artifact on disk.
	if err := os.MkdirAll(cfg.Paths.AudioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	audioPath := filepath.Join(cfg.Paths.AudioDir, AudioFileName(cfg.Audio.FilePrefix, 3))
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr := &fakeTranscriber{}
	runner := TranscribeStage(cfg, tr, logging.NewNop())
	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 1 || res.Skipped != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(tr.sources) != 1 || tr.sources[0] != audioPath {
		t.Fatalf("transcriber sources = %v", tr.sources)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.TranscriptDir, TranscriptFileName("vid03"))); err != nil {
		t.Fatalf("missing transcript: %v", err)
	}
}

func TestTranscribeStageWalksNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcribe.Quota = 2
	if err := os.MkdirAll(cfg.Paths.AudioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for idx := 1; idx <= 3; idx++ {
		path := filepath.Join(cfg.Paths.AudioDir, AudioFileName(cfg.Audio.FilePrefix, idx))
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tr := &fakeTranscriber{}
	runner := TranscribeStage(cfg, tr, logging.NewNop())
	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 2 {
		t.Fatalf("produced %d, want 2", res.Produced)
	}
	want3 := filepath.Join(cfg.Paths.AudioDir, AudioFileName(cfg.Audio.FilePrefix, 3))
	want2 := filepath.Join(cfg.Paths.AudioDir, AudioFileName(cfg.Audio.FilePrefix, 2))
	if tr.sources[0] != want3 || tr.sources[1] != want2 {
		t.Fatalf("order = %v, want newest first", tr.sources)
	}
}

type fakeSummarizer struct {
	outputs []string
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	f.calls++
	if f.calls > len(f.outputs) {
		return f.outputs[len(f.outputs)-1], nil
	}
	return f.outputs[f.calls-1], nil
}

func writeTranscript(t *testing.T, dir, videoID, text string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TranscriptFileName(videoID)), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSummarizeStageRetriesUntilDenseEnough(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writeTranscript(t, cfg.Paths.TranscriptDir, "vid01", "本文")

	sum := &fakeSummarizer{outputs: []string{
		"an english only summary",
		"mostly english with 字",
		"影片重點整理：內容摘要。",
	}}
	runner := SummarizeStage(cfg, sum, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems()[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if sum.calls != 3 {
		t.Fatalf("summarizer calls = %d, want 3", sum.calls)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Paths.SummaryDir, SummaryFileName("vid01")))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if string(data) != "影片重點整理：內容摘要。\n" {
		t.Fatalf("summary = %q", data)
	}
}

func TestSummarizeStageQualityThresholdFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Summarize.MaxAttempts = 3
	writeTranscript(t, cfg.Paths.TranscriptDir, "vid01", "本文")

	var gotErr error
	sum := &fakeSummarizer{outputs: []string{"english only"}}
	runner := SummarizeStage(cfg, sum, logging.NewNop())
	produce := runner.Produce
	runner.Produce = func(ctx context.Context, item catalog.Item) error {
		gotErr = produce(ctx, item)
		return gotErr
	}

	res, err := runner.Run(context.Background(), catalogItems()[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !errors.Is(gotErr, services.ErrQualityThreshold) {
		t.Fatalf("expected quality threshold error, got %v", gotErr)
	}
	if sum.calls != 3 {
		t.Fatalf("summarizer calls = %d, want attempt budget 3", sum.calls)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.SummaryDir, SummaryFileName("vid01"))); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("rejected summary must not be written")
	}
}

func TestSummarizeStageThresholdBoundaryAccepted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Summarize.DensityThreshold = 0.5
	writeTranscript(t, cfg.Paths.TranscriptDir, "vid01", "本文")

	// Exactly half Han characters sits on the boundary and must pass.
	sum := &fakeSummarizer{outputs: []string{"ab字典"}}
	runner := SummarizeStage(cfg, sum, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems()[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 1 || sum.calls != 1 {
		t.Fatalf("result %+v calls=%d", res, sum.calls)
	}
}

func TestSummarizeStageSkipsWithoutTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sum := &fakeSummarizer{outputs: []string{"重點"}}
	runner := SummarizeStage(cfg, sum, logging.NewNop())

	res, err := runner.Run(context.Background(), catalogItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Skipped != 3 || res.Produced != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if sum.calls != 0 {
		t.Fatalf("summarizer called %d times for missing transcripts", sum.calls)
	}
}
