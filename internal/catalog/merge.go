package catalog

import (
	"sort"
	"strings"
)

// Merge appends freshly discovered items to the catalog. Entries whose id is
// already cataloged are dropped; survivors are sorted by title (ties broken by
// id for determinism) and assigned contiguous idx values continuing from the
// current high-water mark. Existing rows are never rewritten. Returns the
// newly added items only.
func Merge(existing *Catalog, discovered []RawItem) []Item {
	// Duplicate ids within one discovery pass collapse to the first.
	seen := make(map[string]struct{}, len(discovered))
	fresh := make([]RawItem, 0, len(discovered))
	for _, raw := range discovered {
		if raw.ID == "" {
			continue
		}
		if existing.Contains(raw.ID) {
			continue
		}
		if _, ok := seen[raw.ID]; ok {
			continue
		}
		seen[raw.ID] = struct{}{}
		fresh = append(fresh, raw)
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].Title != fresh[j].Title {
			return fresh[i].Title < fresh[j].Title
		}
		return fresh[i].ID < fresh[j].ID
	})

	next := existing.MaxIdx() + 1
	added := make([]Item, 0, len(fresh))
	for _, raw := range fresh {
		date := strings.TrimSpace(raw.UploadDate)
		if date == "" {
			date = DateUnknown
		}
		item := Item{
			Idx:   next,
			ID:    raw.ID,
			Title: raw.Title,
			URL:   WatchURL(raw.ID),
			Date:  date,
		}
		existing.Items = append(existing.Items, item)
		added = append(added, item)
		next++
	}
	return added
}
