package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// listing collects rows for a rounded go-pretty table. The first column is
// right aligned when numeric is set; headers are always left aligned.
type listing struct {
	tw      table.Writer
	width   int
	numeric bool
}

func newListing(numeric bool, headers ...string) *listing {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	return &listing{tw: tw, width: len(headers), numeric: numeric}
}

// add appends a row, padding or truncating cells to the header width.
func (l *listing) add(cells ...string) {
	row := make(table.Row, l.width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	l.tw.AppendRow(row)
}

func (l *listing) String() string {
	if l.width == 0 {
		return ""
	}
	configs := make([]table.ColumnConfig, l.width)
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	if l.numeric {
		configs[0].Align = text.AlignRight
	}
	l.tw.SetColumnConfigs(configs)
	return l.tw.Render()
}
