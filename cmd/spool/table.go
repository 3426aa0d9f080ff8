package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"spool/internal/catalog"
)

// titleWidth caps the TITLE column so long playlist titles do not wrap the
// whole table.
const titleWidth = 60

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// renderItemTable formats catalog items in the caller's order.
func renderItemTable(items []catalog.Item) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"IDX", "DATE", "TITLE", "ID"})
	for _, item := range items {
		tw.AppendRow(table.Row{item.Idx, item.Date, truncate(item.Title, titleWidth), item.ID})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderProgressTable formats per-stage artifact counts against the catalog
// size.
func renderProgressTable(total int, lines []progressLine) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"STAGE", "DONE", "PENDING"})
	for _, line := range lines {
		tw.AppendRow(table.Row{line.name, line.done, total - line.done})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
