package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vmunix/sortarr/internal/media"
)

// RenderSummary writes a human-readable run summary table to w.
func RenderSummary(w io.Writer, r *Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	tw.AppendHeader(table.Row{"Outcome", "Units"})
	tw.AppendRow(table.Row{"accepted", r.Summary.Accepted})
	tw.AppendRow(table.Row{"review", r.Summary.Review})
	tw.AppendRow(table.Row{"skipped", r.Summary.Skipped})
	tw.AppendRow(table.Row{"failed", r.Summary.Failed})
	tw.AppendFooter(table.Row{"total", r.Summary.Total})
	tw.Render()
}

// RenderList writes a generic table of rows to w.
func RenderList(w io.Writer, headers []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

// RenderDecisions writes a per-unit decision table to w. Accepted units
// show their destination; everything else shows the reason code.
func RenderDecisions(w io.Writer, r *Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Source", "Outcome", "Confidence", "Destination / Reason"})
	for _, e := range r.Entries {
		detail := e.Reason
		if e.Outcome == media.OutcomeAccepted {
			detail = e.DestPath
		}
		tw.AppendRow(table.Row{e.SourcePath, string(e.Outcome), fmt.Sprintf("%.2f", e.Confidence), detail})
	}
	tw.Render()
}
