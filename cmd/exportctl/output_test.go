package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/core"
	"exporthub/internal/export"
	"exporthub/internal/services"
	"exporthub/internal/transport"
	"exporthub/internal/worker"
)

func TestPrintTemplatesTable(t *testing.T) {
	var buf bytes.Buffer
	printTemplatesTable(&buf, export.Templates())

	out := buf.String()
	for _, tmpl := range export.Templates() {
		assert.Contains(t, out, tmpl.ID)
		assert.Contains(t, out, tmpl.Name)
	}
}

func TestPrintServicesTable_MarksConnected(t *testing.T) {
	var buf bytes.Buffer
	printServicesTable(&buf, services.CloudServices, []string{"dropbox"})

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	var dropbox, slack string
	for _, l := range lines {
		switch {
		case bytes.Contains(l, []byte("dropbox")):
			dropbox = string(l)
		case bytes.Contains(l, []byte("slack")):
			slack = string(l)
		}
	}
	assert.Contains(t, dropbox, "connected")
	assert.NotContains(t, dropbox, "not connected")
	assert.Contains(t, slack, "not connected")
}

func TestPrintHistoryTable(t *testing.T) {
	now := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printHistoryTable(&buf, nil, now)
		assert.Equal(t, "No exports yet.\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		printHistoryTable(&buf, []services.HistoryEntry{{
			ID:           "h-1",
			TemplateName: "Tax Report",
			Format:       "TXT",
			RecordCount:  2,
			TotalAmount:  core.Money{Cents: 9300},
			Destination:  "Dropbox",
			Timestamp:    now.Add(-2 * time.Hour),
		}}, now)

		out := buf.String()
		assert.Contains(t, out, "2h ago")
		assert.Contains(t, out, "Tax Report")
		assert.Contains(t, out, "$93.00")
		assert.Contains(t, out, "Dropbox")
	})
}

func TestPrintExpensesTable_Footer(t *testing.T) {
	var buf bytes.Buffer
	printExpensesTable(&buf, []core.Expense{
		{Date: "2026-02-01", Amount: core.Money{Cents: 1250}, Category: core.Food, Description: "Lunch"},
		{Date: "2026-02-02", Amount: core.Money{Cents: 300}, Category: core.Transportation, Description: "Bus"},
	})

	out := buf.String()
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "$15.50")
}

func TestPrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	printResultsTable(&buf, []services.ExportResult{{
		Transport: transport.Result{Success: true, Destination: "slack", Bytes: 42, Elapsed: 1500 * time.Millisecond},
		Entry:     services.HistoryEntry{TemplateName: "Full Export", Destination: "Slack", RecordCount: 3, TotalAmount: core.Money{Cents: 10550}},
	}})

	out := buf.String()
	assert.Contains(t, out, "Slack")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "$105.50")
}

func TestPrintStatsTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printStatsTable(&buf, []worker.DestinationStats{})
	assert.Equal(t, "No export events processed yet.\n", buf.String())
}

func TestPrintJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"records": 3}))

	assert.Equal(t, "{\n  \"records\": 3\n}\n", buf.String())

	var back map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 3, back["records"])
}
