package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"spool/internal/fileutil"
	"spool/internal/logging"
)

// ErrCorrupt marks a persisted catalog whose structure does not match the
// expected column set. Fatal to the run; there is no auto-repair.
var ErrCorrupt = errors.New("corrupt catalog")

var columns = []string{"idx", "id", "title", "url", "date"}

// Store owns the persisted catalog file. All writes go through Save, which is
// atomic from the caller's perspective.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore binds a store to the catalog file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logging.NewComponentLogger(logger, "catalog")}
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted catalog. A missing file yields an empty catalog.
func (s *Store) Load() (*Catalog, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("catalog file absent, starting empty", logging.String("path", s.path))
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if len(records) == 0 {
		return &Catalog{}, nil
	}
	if !equalHeader(records[0]) {
		return nil, fmt.Errorf("%w: %s: unexpected columns %v", ErrCorrupt, s.path, records[0])
	}

	cat := &Catalog{Items: make([]Item, 0, len(records)-1)}
	for _, record := range records[1:] {
		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad idx %q", ErrCorrupt, s.path, record[0])
		}
		cat.Items = append(cat.Items, Item{
			Idx:   idx,
			ID:    record[1],
			Title: record[2],
			URL:   record[3],
			Date:  record[4],
		})
	}
	// Row order on disk is not trusted; idx is the only ordering authority.
	sort.SliceStable(cat.Items, func(i, j int) bool {
		return cat.Items[i].Idx < cat.Items[j].Idx
	})
	return cat, nil
}

// Save persists the full catalog, overwriting the prior file. The write goes
// to a temporary path first and is renamed over the target only once it fully
// succeeds, so interrupted saves retain the old content.
func (s *Store) Save(cat *Catalog) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("encode catalog header: %w", err)
	}
	for _, item := range cat.Items {
		record := []string{
			strconv.Itoa(item.Idx),
			item.ID,
			item.Title,
			item.URL,
			item.Date,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("encode catalog row %d: %w", item.Idx, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure catalog directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	s.logger.Info("catalog saved", logging.String("path", s.path), logging.Int("items", cat.Len()))
	return nil
}

func equalHeader(record []string) bool {
	if len(record) != len(columns) {
		return false
	}
	for i, col := range columns {
		if record[i] != col {
			return false
		}
	}
	return true
}
