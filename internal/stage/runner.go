package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"spool/internal/catalog"
	"spool/internal/logging"
	"spool/internal/services"
)

// Order declares the traversal direction over catalog items.
type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

// Runner walks catalog items in a fixed order and applies an idempotent
// production to every item whose artifact is not already on disk, bounded by
// a per-run quota. Presence on disk is the only progress marker, which makes
// every stage resumable after partial failure.
type Runner struct {
	Name  string
	Dir   string
	Order Order
	// Quota is the maximum number of successful productions per invocation.
	// 0 means unlimited.
	Quota int
	// AbortOnFailure terminates the run on the first hard producer failure
	// instead of skipping to the next item.
	AbortOnFailure bool
	Pacer          Pacer
	Logger         *slog.Logger

	// Exists is the presence predicate: true when the artifact already landed.
	Exists func(item catalog.Item) bool
	// Produce creates the artifact. It must write output via a temporary file
	// followed by an atomic rename so interruptions never leave a partial
	// artifact behind the presence predicate.
	Produce func(ctx context.Context, item catalog.Item) error
}

// Result summarizes one runner invocation.
type Result struct {
	Produced int
	Skipped  int
	Failed   int
}

// Run traverses items and produces missing artifacts until the quota is met
// or the sequence is exhausted. The returned error is non-nil only for
// abort-policy failures or context cancellation; ordinary per-item failures
// are logged and counted.
func (r *Runner) Run(ctx context.Context, items []catalog.Item) (Result, error) {
	var res Result

	base := logging.NewComponentLogger(r.Logger, r.Name)
	logger := logging.WithContext(ctx, base)
	if r.Exists == nil || r.Produce == nil {
		return res, fmt.Errorf("stage %s: presence predicate and producer are required", r.Name)
	}
	if r.Dir != "" {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return res, fmt.Errorf("stage %s: ensure directory %q: %w", r.Name, r.Dir, err)
		}
	}

	ordered := make([]catalog.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if r.Order == NewestFirst {
			return ordered[i].Idx > ordered[j].Idx
		}
		return ordered[i].Idx < ordered[j].Idx
	})

	for _, item := range ordered {
		if r.Quota > 0 && res.Produced >= r.Quota {
			logger.Info("stage quota reached",
				logging.String(logging.FieldEventType, "quota_reached"),
				logging.Int("quota", r.Quota))
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if r.Exists(item) {
			continue
		}

		itemCtx := services.WithStage(ctx, r.Name)
		itemCtx = services.WithItem(itemCtx, item.ID)
		itemLogger := logging.WithContext(itemCtx, base).
			With(logging.Int(logging.FieldItemIdx, item.Idx))

		if r.Pacer != nil {
			if err := r.Pacer.Wait(itemCtx); err != nil {
				return res, err
			}
		}

		itemLogger.Info("producing artifact", logging.String(logging.FieldEventType, "attempt"))
		err := r.Produce(itemCtx, item)
		switch {
		case err == nil:
			res.Produced++
			itemLogger.Info("artifact produced", logging.String(logging.FieldEventType, "success"))
		case services.IsSkip(err):
			res.Skipped++
			itemLogger.Warn("item skipped",
				logging.String(logging.FieldEventType, "skip"),
				logging.Error(err))
		default:
			res.Failed++
			itemLogger.Error("production failed",
				logging.String(logging.FieldEventType, "failure"),
				logging.Error(err))
			if r.AbortOnFailure {
				return res, fmt.Errorf("stage %s aborted: %w", r.Name, err)
			}
		}
	}

	logger.Info("stage finished",
		logging.Int("produced", res.Produced),
		logging.Int("skipped", res.Skipped),
		logging.Int("failed", res.Failed))
	return res, nil
}
