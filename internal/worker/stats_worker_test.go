package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/amqp"
	"exporthub/internal/core"
	"exporthub/internal/services"
	"exporthub/internal/storage"
	"exporthub/internal/storage/memory"
)

var t0 = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

func event(id, dest string, records int, cents int64, at time.Time) *amqp.ExportRecordedMessage {
	return &amqp.ExportRecordedMessage{
		EntryID:      id,
		TemplateName: "Full Export",
		Format:       "CSV",
		RecordCount:  records,
		TotalCents:   cents,
		Destination:  dest,
		RecordedAt:   at,
	}
}

func TestHandleExportRecordedAggregates(t *testing.T) {
	ctx := context.Background()
	w := NewStatsWorker(memory.New())

	require.NoError(t, w.HandleExportRecorded(ctx, event("1", "Dropbox", 3, 1000, t0)))
	require.NoError(t, w.HandleExportRecorded(ctx, event("2", "Dropbox", 2, 500, t0.Add(time.Hour))))
	require.NoError(t, w.HandleExportRecorded(ctx, event("3", "Local Download", 1, 50, t0)))

	stats := w.Stats(ctx)
	require.Len(t, stats, 2)
	assert.Equal(t, DestinationStats{
		Destination: "Dropbox",
		Exports:     2,
		Records:     5,
		TotalAmount: core.Money{Cents: 1500},
		LastExport:  t0.Add(time.Hour),
	}, stats[0])
	assert.Equal(t, "Local Download", stats[1].Destination)
}

func TestHandleExportRecordedIgnoresRedelivery(t *testing.T) {
	ctx := context.Background()
	w := NewStatsWorker(memory.New())

	msg := event("1", "Slack", 4, 400, t0)
	require.NoError(t, w.HandleExportRecorded(ctx, msg))
	require.NoError(t, w.HandleExportRecorded(ctx, msg))

	stats := w.Stats(ctx)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Exports)
}

func TestCatchUpFromHistoryMergesIntoExistingStats(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewStatsWorker(store)

	// An export that has already fallen out of the ledger.
	require.NoError(t, w.HandleExportRecorded(ctx, event("old", "Notion", 4, 400, t0.Add(-time.Hour))))
	// An export the worker saw that is still in the ledger.
	require.NoError(t, w.HandleExportRecorded(ctx, event("a", "Email", 1, 100, t0)))

	entries := []services.HistoryEntry{
		{ID: "b", Destination: "Email", RecordCount: 2, TotalAmount: core.Money{Cents: 200}, Timestamp: t0.Add(time.Minute)},
		{ID: "a", Destination: "Email", RecordCount: 1, TotalAmount: core.Money{Cents: 100}, Timestamp: t0},
	}
	require.NoError(t, w.CatchUpFromHistory(ctx, entries))

	stats := LoadStats(ctx, store)
	require.Len(t, stats, 2)
	assert.Equal(t, "Email", stats[0].Destination)
	assert.Equal(t, 2, stats[0].Exports)
	assert.Equal(t, 3, stats[0].Records)
	assert.Equal(t, int64(300), stats[0].TotalAmount.Cents)
	assert.Equal(t, t0.Add(time.Minute), stats[0].LastExport)
	assert.Equal(t, "Notion", stats[1].Destination)
	assert.Equal(t, 1, stats[1].Exports)

	// A second restart over the same ledger changes nothing.
	require.NoError(t, w.CatchUpFromHistory(ctx, entries))
	assert.Equal(t, stats, LoadStats(ctx, store))

	// Replayed ids are not counted again.
	require.NoError(t, w.HandleExportRecorded(ctx, event("b", "Email", 2, 200, t0)))
	assert.Equal(t, 2, w.Stats(ctx)[0].Exports)
}

func TestCatchUpFromHistoryOnEmptyStats(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewStatsWorker(store)

	require.NoError(t, w.CatchUpFromHistory(ctx, []services.HistoryEntry{
		{ID: "x", Destination: "Slack", RecordCount: 5, TotalAmount: core.Money{Cents: 50}, Timestamp: t0},
	}))
	stats := w.Stats(ctx)
	require.Len(t, stats, 1)
	assert.Equal(t, 5, stats[0].Records)
}

func TestMalformedStatsBlobStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.StatsKey, []byte("][")))

	w := NewStatsWorker(store)
	assert.Empty(t, w.Stats(ctx))
	require.NoError(t, w.HandleExportRecorded(ctx, event("1", "Slack", 1, 1, t0)))
	assert.Len(t, w.Stats(ctx), 1)
}
