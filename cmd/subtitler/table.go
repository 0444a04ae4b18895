package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/processor"
)

// renderSummary renders a finished run as a two-column table.
func renderSummary(out processor.Output) string {
	language := out.Language
	if language == "" {
		language = "-"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"Title", out.Title},
		{"Output", out.Path},
		{"Format", string(out.Kind)},
		{"Language", language},
		{"Segments", strconv.Itoa(out.Segments)},
		{"Size", humanize.Bytes(uint64(out.Bytes))},
		{"Elapsed", out.Elapsed.Round(time.Millisecond).String()},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	return tw.Render()
}
