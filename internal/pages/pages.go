// Package pages renders the catalog into paginated markdown listing
// documents, embedding per-item summaries and transcript links where those
// artifacts exist.
package pages

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/fileutil"
	"spool/internal/logging"
	"spool/internal/stages"
	"spool/internal/textutil"
)

// Batch is a contiguous index range rendered into one page file.
type Batch struct {
	Num      int
	StartIdx int
	EndIdx   int
}

// FileName returns the page document name for the batch.
func (b Batch) FileName() string {
	return fmt.Sprintf("%02d-index.md", b.Num)
}

// Batches splits the index space 1..maxIdx into fixed-size ranges. Batch
// numbering starts at zero to match the page file names.
func Batches(maxIdx, batchSize int) []Batch {
	if maxIdx <= 0 || batchSize <= 0 {
		return nil
	}
	count := (maxIdx + batchSize - 1) / batchSize
	batches := make([]Batch, 0, count)
	for num := 0; num < count; num++ {
		start := num*batchSize + 1
		end := (num + 1) * batchSize
		if end > maxIdx {
			end = maxIdx
		}
		batches = append(batches, Batch{Num: num, StartIdx: start, EndIdx: end})
	}
	return batches
}

var pageEntryTemplate = template.Must(template.New("entry").Parse(`<details>
<summary>{{.Idx}}. {{.DateLabel}}{{.Title}}</summary><br>

<a href="https://www.youtube.com/watch?v={{.ID}}" target="_blank">
    <img src="https://img.youtube.com/vi/{{.ID}}/maxresdefault.jpg"
        alt="[Youtube]" width="200">
</a>{{.TranscriptLink}}

# {{.Title}}

{{.Summary}}

---

</details>

`))

type pageEntry struct {
	Idx            int
	DateLabel      string
	Title          string
	ID             string
	TranscriptLink string
	Summary        string
}

// Builder renders page documents and the index file linking them.
type Builder struct {
	pagesDir      string
	summaryDir    string
	transcriptDir string
	batchSize     int
	descending    bool
	logger        *slog.Logger
}

// NewBuilder wires a Builder from the repository configuration.
func NewBuilder(cfg *config.Config, logger *slog.Logger) *Builder {
	return &Builder{
		pagesDir:      cfg.Paths.PagesDir,
		summaryDir:    cfg.Paths.SummaryDir,
		transcriptDir: cfg.Paths.TranscriptDir,
		batchSize:     cfg.Pages.BatchSize,
		descending:    cfg.Pages.Descending,
		logger:        logging.NewComponentLogger(logger, "pages"),
	}
}

// Build renders every non-empty batch into its page document. Page files are
// regenerated wholesale on every call; the catalog is the source of truth and
// pages are derived output.
func (b *Builder) Build(cat *catalog.Catalog) error {
	if err := os.MkdirAll(b.pagesDir, 0o755); err != nil {
		return fmt.Errorf("ensure pages directory: %w", err)
	}

	byIdx := make(map[int]catalog.Item, cat.Len())
	for _, item := range cat.Items {
		byIdx[item.Idx] = item
	}

	for _, batch := range Batches(cat.MaxIdx(), b.batchSize) {
		items := make([]catalog.Item, 0, batch.EndIdx-batch.StartIdx+1)
		for idx := batch.StartIdx; idx <= batch.EndIdx; idx++ {
			if item, ok := byIdx[idx]; ok {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		if err := b.writePage(batch, items); err != nil {
			return err
		}
		b.logger.Info("page written",
			logging.String("file", batch.FileName()),
			logging.Int("items", len(items)))
	}
	return nil
}

func (b *Builder) writePage(batch Batch, items []catalog.Item) error {
	sort.SliceStable(items, func(i, j int) bool {
		if b.descending {
			return items[i].Idx > items[j].Idx
		}
		return items[i].Idx < items[j].Idx
	})

	var buf bytes.Buffer
	for _, item := range items {
		if err := pageEntryTemplate.Execute(&buf, b.entryFor(item)); err != nil {
			return fmt.Errorf("render page entry %d: %w", item.Idx, err)
		}
	}

	path := filepath.Join(b.pagesDir, batch.FileName())
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write page %s: %w", batch.FileName(), err)
	}
	return nil
}

func (b *Builder) entryFor(item catalog.Item) pageEntry {
	entry := pageEntry{
		Idx:   item.Idx,
		Title: strings.TrimSpace(textutil.StripBracketed(item.Title)),
		ID:    item.ID,
	}
	if item.Date != catalog.DateUnknown {
		entry.DateLabel = "[" + item.Date + "] "
	}

	summaryPath := filepath.Join(b.summaryDir, stages.SummaryFileName(item.ID))
	if data, err := os.ReadFile(summaryPath); err == nil {
		entry.Summary = strings.TrimSpace(string(data))
	}

	transcriptPath := filepath.Join(b.transcriptDir, stages.TranscriptFileName(item.ID))
	if fileutil.Exists(transcriptPath) {
		rel := "../" + filepath.Base(b.transcriptDir) + "/" + stages.TranscriptFileName(item.ID)
		entry.TranscriptLink = "\n\n[Transcript](" + rel + ")"
	}
	return entry
}

// WriteIndex writes a top-level document at path linking every page file,
// titled with the newest known upload date.
func (b *Builder) WriteIndex(path, title string, cat *catalog.Catalog) error {
	var buf bytes.Buffer

	heading := title
	if date := newestKnownDate(cat); date != "" {
		heading = fmt.Sprintf("%s (%s)", title, date)
	}
	fmt.Fprintf(&buf, "# %s\n\n---\n\n", heading)

	batches := Batches(cat.MaxIdx(), b.batchSize)
	if b.descending {
		for i, j := 0, len(batches)-1; i < j; i, j = i+1, j-1 {
			batches[i], batches[j] = batches[j], batches[i]
		}
	}
	for _, batch := range batches {
		fmt.Fprintf(&buf, "- [%04d~%04d](%s/%s)\n",
			batch.StartIdx, batch.EndIdx, filepath.Base(b.pagesDir), batch.FileName())
	}
	buf.WriteString("\n---\n")

	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func newestKnownDate(cat *catalog.Catalog) string {
	for _, item := range cat.NewestFirst() {
		if item.Date != catalog.DateUnknown {
			return item.Date
		}
	}
	return ""
}
