// Package worker aggregates export events into per-destination statistics.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"exporthub/internal/amqp"
	"exporthub/internal/core"
	applog "exporthub/internal/log"
	"exporthub/internal/services"
	"exporthub/internal/storage"
)

// maxSeenEntries bounds the redelivery guard.
const maxSeenEntries = 200

// DestinationStats summarizes every export delivered to one destination.
type DestinationStats struct {
	Destination string     `json:"destination"`
	Exports     int        `json:"exports"`
	Records     int        `json:"records"`
	TotalAmount core.Money `json:"totalAmount"`
	LastExport  time.Time  `json:"lastExport"`
}

type statsBlob struct {
	Destinations map[string]*DestinationStats `json:"destinations"`
	// Seen holds the most recent entry ids, newest last.
	Seen []string `json:"seen"`
}

// StatsWorker folds ExportRecorded events into the stats blob.
type StatsWorker struct {
	store storage.BlobStore
}

func NewStatsWorker(store storage.BlobStore) *StatsWorker {
	return &StatsWorker{store: store}
}

// HandleExportRecorded applies one event. An entry id seen recently is
// acknowledged without counting it twice.
func (w *StatsWorker) HandleExportRecorded(ctx context.Context, msg *amqp.ExportRecordedMessage) error {
	blob := w.load(ctx)
	for _, id := range blob.Seen {
		if id == msg.EntryID {
			slog.DebugContext(ctx, "Duplicate export event ignored",
				applog.FieldComponent, applog.ComponentAMQP,
				"entry_id", msg.EntryID)
			return nil
		}
	}

	apply(blob, msg.Destination, msg.RecordCount, msg.TotalCents, msg.RecordedAt)
	blob.Seen = append(blob.Seen, msg.EntryID)
	if len(blob.Seen) > maxSeenEntries {
		blob.Seen = blob.Seen[len(blob.Seen)-maxSeenEntries:]
	}

	if err := storage.SaveJSON(ctx, w.store, storage.StatsKey, blob); err != nil {
		return fmt.Errorf("save export stats: %w", err)
	}

	slog.InfoContext(ctx, "Export event processed",
		applog.FieldComponent, applog.ComponentAMQP,
		"entry_id", msg.EntryID,
		applog.FieldDestination, msg.Destination,
		applog.FieldRecordCount, msg.RecordCount)
	return nil
}

// CatchUpFromHistory folds ledger entries the worker has not seen into the
// existing stats. Used at startup to recover events missed while the worker
// was down. Totals for exports older than the ledger are kept; an entry is
// skipped when its id is in the recent-ids window, which is wider than the
// ledger.
func (w *StatsWorker) CatchUpFromHistory(ctx context.Context, entries []services.HistoryEntry) error {
	blob := w.load(ctx)
	seen := make(map[string]bool, len(blob.Seen))
	for _, id := range blob.Seen {
		seen[id] = true
	}

	applied := 0
	// Ledger entries are newest first; replay oldest first.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if seen[e.ID] {
			continue
		}
		apply(blob, e.Destination, e.RecordCount, e.TotalAmount.Cents, e.Timestamp)
		blob.Seen = append(blob.Seen, e.ID)
		seen[e.ID] = true
		applied++
	}
	if applied == 0 {
		return nil
	}
	if len(blob.Seen) > maxSeenEntries {
		blob.Seen = blob.Seen[len(blob.Seen)-maxSeenEntries:]
	}

	if err := storage.SaveJSON(ctx, w.store, storage.StatsKey, blob); err != nil {
		return fmt.Errorf("catch up export stats: %w", err)
	}

	slog.InfoContext(ctx, "Export stats caught up from history",
		applog.FieldComponent, applog.ComponentAMQP,
		"entries", len(entries),
		"applied", applied,
		"destinations", len(blob.Destinations))
	return nil
}

// Stats returns per-destination totals, busiest destination first.
func (w *StatsWorker) Stats(ctx context.Context) []DestinationStats {
	return LoadStats(ctx, w.store)
}

// LoadStats reads the stats blob without a worker.
func LoadStats(ctx context.Context, store storage.BlobStore) []DestinationStats {
	var blob statsBlob
	storage.LoadJSON(ctx, store, storage.StatsKey, &blob)

	out := make([]DestinationStats, 0, len(blob.Destinations))
	for _, d := range blob.Destinations {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exports != out[j].Exports {
			return out[i].Exports > out[j].Exports
		}
		return out[i].Destination < out[j].Destination
	})
	return out
}

func (w *StatsWorker) load(ctx context.Context) *statsBlob {
	blob := &statsBlob{}
	storage.LoadJSON(ctx, w.store, storage.StatsKey, blob)
	if blob.Destinations == nil {
		blob.Destinations = make(map[string]*DestinationStats)
	}
	return blob
}

func apply(blob *statsBlob, destination string, records int, cents int64, at time.Time) {
	d, ok := blob.Destinations[destination]
	if !ok {
		d = &DestinationStats{Destination: destination}
		blob.Destinations[destination] = d
	}
	d.Exports++
	d.Records += records
	d.TotalAmount.Cents += cents
	if at.After(d.LastExport) {
		d.LastExport = at
	}
}
