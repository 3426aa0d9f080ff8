package stage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spool/internal/catalog"
	"spool/internal/logging"
	"spool/internal/services"
)

func testItems(n int) []catalog.Item {
	items := make([]catalog.Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, catalog.Item{
			Idx:   i,
			ID:    string(rune('a' + i - 1)),
			Title: "title",
			URL:   "https://example.test",
			Date:  catalog.DateUnknown,
		})
	}
	return items
}

func TestRunnerProducesMissingUpToQuota(t *testing.T) {
	dir := t.TempDir()
	existing := map[string]bool{"b": true}
	var produced []string

	runner := &Runner{
		Name:   "audio",
		Dir:    filepath.Join(dir, "audio"),
		Order:  OldestFirst,
		Quota:  2,
		Logger: logging.NewNop(),
		Exists: func(item catalog.Item) bool { return existing[item.ID] },
		Produce: func(ctx context.Context, item catalog.Item) error {
			produced = append(produced, item.ID)
			return nil
		},
	}

	res, err := runner.Run(context.Background(), testItems(5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 2 || res.Skipped != 0 || res.Failed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := []string{"a", "c"}
	if len(produced) != len(want) || produced[0] != want[0] || produced[1] != want[1] {
		t.Fatalf("produced %v, want %v", produced, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "audio")); err != nil {
		t.Fatalf("stage directory not created: %v", err)
	}
}

func TestRunnerSecondInvocationProducesNothing(t *testing.T) {
	done := map[string]bool{}
	runner := &Runner{
		Name:   "notes",
		Order:  OldestFirst,
		Logger: logging.NewNop(),
		Exists: func(item catalog.Item) bool { return done[item.ID] },
		Produce: func(ctx context.Context, item catalog.Item) error {
			done[item.ID] = true
			return nil
		},
	}

	items := testItems(3)
	first, err := runner.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Produced != 3 {
		t.Fatalf("first run produced %d, want 3", first.Produced)
	}

	second, err := runner.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Produced != 0 {
		t.Fatalf("second run produced %d, want 0", second.Produced)
	}
}

func TestRunnerNewestFirstOrder(t *testing.T) {
	var produced []int
	runner := &Runner{
		Name:   "transcribe",
		Order:  NewestFirst,
		Quota:  2,
		Logger: logging.NewNop(),
		Exists: func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			produced = append(produced, item.Idx)
			return nil
		},
	}

	if _, err := runner.Run(context.Background(), testItems(4)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(produced) != 2 || produced[0] != 4 || produced[1] != 3 {
		t.Fatalf("produced order %v, want [4 3]", produced)
	}
}

func TestRunnerSkipDoesNotConsumeQuota(t *testing.T) {
	var produced []string
	runner := &Runner{
		Name:   "subtitles",
		Order:  OldestFirst,
		Quota:  2,
		Logger: logging.NewNop(),
		Exists: func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			if item.ID == "a" || item.ID == "c" {
				return services.Wrap(services.ErrNotFound, "subtitles", "fetch", "no track published", nil)
			}
			produced = append(produced, item.ID)
			return nil
		},
	}

	res, err := runner.Run(context.Background(), testItems(5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 2 || res.Skipped != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(produced) != 2 || produced[0] != "b" || produced[1] != "d" {
		t.Fatalf("produced %v, want [b d]", produced)
	}
}

func TestRunnerAbortOnFailureStopsRun(t *testing.T) {
	boom := errors.New("network down")
	var attempts int
	runner := &Runner{
		Name:           "audio",
		Order:          OldestFirst,
		AbortOnFailure: true,
		Logger:         logging.NewNop(),
		Exists:         func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			attempts++
			if item.ID == "b" {
				return boom
			}
			return nil
		},
	}

	res, err := runner.Run(context.Background(), testItems(4))
	if !errors.Is(err, boom) {
		t.Fatalf("expected abort error wrapping %v, got %v", boom, err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if res.Produced != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunnerContinuesPastFailuresByDefault(t *testing.T) {
	runner := &Runner{
		Name:   "summarize",
		Order:  OldestFirst,
		Logger: logging.NewNop(),
		Exists: func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			if item.ID == "b" {
				return errors.New("flaky upstream")
			}
			return nil
		},
	}

	res, err := runner.Run(context.Background(), testItems(3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Produced != 2 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunnerHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &Runner{
		Name:   "audio",
		Order:  OldestFirst,
		Logger: logging.NewNop(),
		Exists: func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			cancel()
			return nil
		},
	}

	res, err := runner.Run(ctx, testItems(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Produced != 1 {
		t.Fatalf("produced %d before cancellation, want 1", res.Produced)
	}
}

func TestRunnerItemLogsCarryContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := services.WithRunID(context.Background(), "run-123")

	runner := &Runner{
		Name:   "audio",
		Order:  OldestFirst,
		Logger: logger,
		Exists: func(catalog.Item) bool { return false },
		Produce: func(ctx context.Context, item catalog.Item) error {
			return nil
		},
	}
	if _, err := runner.Run(ctx, testItems(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"run_id":"run-123"`, `"stage":"audio"`, `"item_id":"a"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestRunnerRequiresCallbacks(t *testing.T) {
	runner := &Runner{Name: "audio", Logger: logging.NewNop()}
	if _, err := runner.Run(context.Background(), testItems(1)); err == nil {
		t.Fatal("expected error for missing callbacks")
	}
}
