package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"exporthub/internal/core"
	applog "exporthub/internal/log"
	"exporthub/internal/storage"
)

// MaxHistoryEntries caps the ledger; older entries are evicted.
const MaxHistoryEntries = 50

// HistoryEntry records one completed export. Entries are never modified.
type HistoryEntry struct {
	ID           string     `json:"id"`
	TemplateName string     `json:"templateName"`
	Format       string     `json:"format"`
	RecordCount  int        `json:"recordCount"`
	TotalAmount  core.Money `json:"totalAmount"`
	Destination  string     `json:"destination"`
	Timestamp    time.Time  `json:"timestamp"`
}

// NewHistoryEntry is a HistoryEntry before the ledger assigns id and timestamp.
type NewHistoryEntry struct {
	TemplateName string
	Format       string
	RecordCount  int
	TotalAmount  core.Money
	Destination  string
}

// HistoryLedger is the capped, newest-first log of completed exports.
type HistoryLedger struct {
	store storage.BlobStore
	clock Clock
	newID IDSource
}

func NewHistoryLedger(store storage.BlobStore, clock Clock, ids IDSource) *HistoryLedger {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = NewUUID
	}
	return &HistoryLedger{store: store, clock: clock, newID: ids}
}

// List returns entries newest first.
func (h *HistoryLedger) List(ctx context.Context) []HistoryEntry {
	var entries []HistoryEntry
	storage.LoadJSON(ctx, h.store, storage.HistoryKey, &entries)
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries
}

// Record stamps the entry, prepends it and keeps the most recent
// MaxHistoryEntries.
func (h *HistoryLedger) Record(ctx context.Context, in NewHistoryEntry) (HistoryEntry, error) {
	entry := HistoryEntry{
		ID:           h.newID(),
		TemplateName: in.TemplateName,
		Format:       in.Format,
		RecordCount:  in.RecordCount,
		TotalAmount:  in.TotalAmount,
		Destination:  in.Destination,
		Timestamp:    h.clock.Now(),
	}

	entries := append([]HistoryEntry{entry}, h.List(ctx)...)
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	if err := storage.SaveJSON(ctx, h.store, storage.HistoryKey, entries); err != nil {
		return HistoryEntry{}, fmt.Errorf("record export history: %w", err)
	}

	slog.InfoContext(ctx, "Export recorded",
		applog.FieldComponent, applog.ComponentHistory,
		applog.FieldTemplate, entry.TemplateName,
		applog.FieldFormat, entry.Format,
		applog.FieldRecordCount, entry.RecordCount,
		applog.FieldAmountCents, entry.TotalAmount.Cents,
		applog.FieldDestination, entry.Destination)
	return entry, nil
}

// Clear empties the ledger.
func (h *HistoryLedger) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, storage.HistoryKey); err != nil {
		return fmt.Errorf("clear export history: %w", err)
	}
	return nil
}

// TimeAgo renders how long before now ts happened, in the coarse units the
// history view uses.
func TimeAgo(ts, now time.Time) string {
	mins := int(now.Sub(ts) / time.Minute)
	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case mins < 60*24:
		return fmt.Sprintf("%dh ago", mins/60)
	default:
		return fmt.Sprintf("%dd ago", mins/(60*24))
	}
}
