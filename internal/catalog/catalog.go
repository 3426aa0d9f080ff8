package catalog

import "sort"

// DateUnknown is the sentinel stored while an item's upload date is unresolved.
const DateUnknown = "unknown"

// Item is one cataloged video. ID is the stable external identifier; Idx is a
// dense index assigned at first sight and never reassigned, used to derive
// human-stable filenames.
type Item struct {
	Idx   int
	ID    string
	Title string
	URL   string
	Date  string
}

// RawItem is a freshly discovered playlist entry before it enters the catalog.
type RawItem struct {
	ID         string
	Title      string
	UploadDate string
	Duration   int
}

// WatchURL derives the canonical video URL for an external identifier.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Catalog is the ordered, append-only collection of known items.
type Catalog struct {
	Items []Item
}

// Len returns the number of cataloged items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// MaxIdx returns the high-water mark of assigned indexes, 0 when empty.
func (c *Catalog) MaxIdx() int {
	max := 0
	if c == nil {
		return max
	}
	for _, item := range c.Items {
		if item.Idx > max {
			max = item.Idx
		}
	}
	return max
}

// Contains reports whether an item with the given external id is cataloged.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	for _, item := range c.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// NewestFirst returns the items ordered by descending idx.
func (c *Catalog) NewestFirst() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.Items))
	copy(out, c.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Idx > out[j].Idx })
	return out
}

// OldestFirst returns the items ordered by ascending idx.
func (c *Catalog) OldestFirst() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.Items))
	copy(out, c.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Idx < out[j].Idx })
	return out
}
