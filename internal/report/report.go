// Package report prints run summaries as tables on the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"MarketRadar/internal/domain"
)

func newTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Stage", "Value"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

func appendCategories(tw table.Writer, categories map[string]int) {
	if len(categories) == 0 {
		return
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	tw.AppendSeparator()
	for _, name := range names {
		tw.AppendRow(table.Row{"  " + name, strconv.Itoa(categories[name])})
	}
}

// RenderRun writes the market radar summary.
func RenderRun(w io.Writer, r domain.RunReport) error {
	tw := newTable("Market Radar")
	tw.AppendRows([]table.Row{
		{"Run", r.RunID},
		{"State", string(r.State)},
		{"Fetched", r.Fetched},
		{"Unique", r.Unique},
		{"Signals", r.Signals},
		{"Priority", r.Priority},
		{"Noise", r.Noise},
		{"Batch", r.Batch},
		{"Classified", r.Classified},
		{"Persist", string(r.Persist.Status)},
		{"Saved", r.Persist.Saved},
		{"Notified", r.Notified},
	})
	appendCategories(tw, r.Categories)
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// RenderReviews writes the review analyzer summary.
func RenderReviews(w io.Writer, r domain.ReviewReport) error {
	tw := newTable("Review Analyzer")
	tw.AppendRows([]table.Row{
		{"Run", r.RunID},
		{"Fetched", r.Fetched},
		{"Classified", r.Classified},
		{"Saved", r.Saved},
	})
	appendCategories(tw, r.Categories)
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// RenderZStop lists every candidate followed by the alert counts.
func RenderZStop(w io.Writer, r domain.ZStopReport) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Z-STOP")
	tw.SetCaption("run %s", r.RunID)
	tw.AppendHeader(table.Row{"Outlet", "Region", "SKU", "Product", "Stock", "Sales", "Date"})
	for _, c := range r.Candidates {
		tw.AppendRow(table.Row{c.OutletName, c.Region, c.ProductSKU, c.ProductName, c.StockQty, c.SalesQty, c.SnapshotDate})
	}
	tw.AppendFooter(table.Row{"Alerts created", "", "", "", r.Alerts, "Open", r.OpenAlerts})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
