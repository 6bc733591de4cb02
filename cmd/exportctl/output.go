package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"exporthub/internal/core"
	"exporthub/internal/export"
	"exporthub/internal/services"
	"exporthub/internal/worker"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func printTemplatesTable(w io.Writer, templates []export.Template) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Format", "Description"})
	for _, tmpl := range templates {
		t.AppendRow(table.Row{tmpl.ID, tmpl.Icon + " " + tmpl.Name, string(tmpl.Format), tmpl.Description})
	}
	t.Render()
}

func printServicesTable(w io.Writer, catalog []services.CloudService, connected []string) {
	isConnected := make(map[string]bool)
	for _, id := range connected {
		isConnected[id] = true
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Description"})
	for _, svc := range catalog {
		status := text.FgHiBlack.Sprint("not connected")
		if isConnected[svc.ID] {
			status = text.FgGreen.Sprint("connected")
		}
		t.AppendRow(table.Row{svc.ID, svc.Icon + " " + svc.Name, status, svc.Description})
	}
	t.Render()
}

func printHistoryTable(w io.Writer, entries []services.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exports yet.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"When", "Template", "Format", "Records", "Total", "Destination"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			services.TimeAgo(e.Timestamp, now),
			e.TemplateName,
			e.Format,
			e.RecordCount,
			e.TotalAmount.String(),
			e.Destination,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

func printSchedulesTable(w io.Writer, schedules []services.Schedule) {
	if len(schedules) == 0 {
		fmt.Fprintln(w, "No schedules.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Template", "Frequency", "Destination", "Status", "Next Run"})
	for _, sc := range schedules {
		status := text.FgGreen.Sprint("enabled")
		if !sc.Enabled {
			status = text.FgHiBlack.Sprint("paused")
		}
		t.AppendRow(table.Row{
			sc.ID,
			sc.TemplateName(),
			string(sc.Frequency),
			sc.DestinationName(),
			status,
			sc.NextRun.Local().Format("Mon Jan 2 15:04"),
		})
	}
	t.Render()
}

func printExpensesTable(w io.Writer, expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Category", "Description", "Amount"})
	for _, e := range expenses {
		t.AppendRow(table.Row{e.Date, string(e.Category), e.Description, e.Amount.String()})
	}
	t.AppendFooter(table.Row{"", "", "Total", core.Money{Cents: core.GrandTotal(expenses)}.String()})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	t.Render()
}

func printResultsTable(w io.Writer, results []services.ExportResult) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Destination", "Template", "Records", "Total", "Bytes", "Took"})
	for _, res := range results {
		t.AppendRow(table.Row{
			res.Entry.Destination,
			res.Entry.TemplateName,
			res.Entry.RecordCount,
			res.Entry.TotalAmount.String(),
			res.Transport.Bytes,
			res.Transport.Elapsed.Round(time.Millisecond).String(),
		})
	}
	t.Render()
}

func printStatsTable(w io.Writer, stats []worker.DestinationStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No export events processed yet.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Destination", "Exports", "Records", "Total", "Last Export"})
	for _, s := range stats {
		t.AppendRow(table.Row{s.Destination, s.Exports, s.Records, s.TotalAmount.String(), s.LastExport.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
}
