package catalog

import (
	"context"
	"sort"

	"spool/internal/logging"
)

// DateResolver asks the external source for an item's upload date. It returns
// the ISO date, or DateUnknown when the source cannot resolve it.
type DateResolver func(ctx context.Context, id string) (string, error)

// ResolveDates updates unresolved upload dates in place, newest-first, up to
// quota successful resolutions per call. The catalog is persisted once at the
// end when anything changed; previously resolved rows are left untouched.
// Resolver errors are logged per item and do not stop the pass.
func (s *Store) ResolveDates(ctx context.Context, cat *Catalog, resolver DateResolver, quota int) (int, error) {
	log := logging.WithContext(ctx, s.logger)

	order := make([]int, len(cat.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return cat.Items[order[i]].Idx > cat.Items[order[j]].Idx
	})

	resolved := 0
	for _, i := range order {
		if quota > 0 && resolved >= quota {
			log.Info("date resolution quota reached", logging.Int("quota", quota))
			break
		}
		if err := ctx.Err(); err != nil {
			return resolved, err
		}
		item := &cat.Items[i]
		if item.Date != DateUnknown {
			continue
		}

		date, err := resolver(ctx, item.ID)
		if err != nil {
			log.Error("date resolution failed",
				logging.String(logging.FieldItemID, item.ID),
				logging.Int(logging.FieldItemIdx, item.Idx),
				logging.Error(err))
			continue
		}
		if date == DateUnknown || date == "" {
			log.Warn("upload date still unavailable",
				logging.String(logging.FieldItemID, item.ID),
				logging.Int(logging.FieldItemIdx, item.Idx))
			continue
		}

		item.Date = date
		resolved++
		log.Info("upload date resolved",
			logging.String(logging.FieldItemID, item.ID),
			logging.Int(logging.FieldItemIdx, item.Idx),
			logging.String("date", date))
	}

	if resolved == 0 {
		log.Info("no dates to resolve")
		return 0, nil
	}
	if err := s.Save(cat); err != nil {
		return resolved, err
	}
	return resolved, nil
}
