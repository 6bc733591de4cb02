package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/core"
	"exporthub/internal/storage"
	"exporthub/internal/storage/memory"
)

func TestHistoryRecordStampsEntry(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryLedger(memory.New(), newFakeClock(), seqIDs("h"))

	entry, err := h.Record(ctx, NewHistoryEntry{
		TemplateName: "Full Export",
		Format:       "CSV",
		RecordCount:  3,
		TotalAmount:  core.Money{Cents: 4550},
		Destination:  LocalDownloadDestination,
	})
	require.NoError(t, err)

	assert.Equal(t, "h-1", entry.ID)
	assert.Equal(t, testNow, entry.Timestamp)
	assert.Equal(t, []HistoryEntry{entry}, h.List(ctx))
}

func TestHistoryCapsAtFiftyNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	h := NewHistoryLedger(memory.New(), clock, seqIDs("h"))

	for i := 1; i <= MaxHistoryEntries+1; i++ {
		_, err := h.Record(ctx, NewHistoryEntry{TemplateName: fmt.Sprintf("run %d", i), Format: "CSV"})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	entries := h.List(ctx)
	require.Len(t, entries, MaxHistoryEntries)
	assert.Equal(t, "h-51", entries[0].ID)
	assert.Equal(t, "h-2", entries[len(entries)-1].ID)
	for _, e := range entries {
		assert.NotEqual(t, "h-1", e.ID)
	}
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Timestamp.After(entries[i].Timestamp))
	}
}

func TestHistoryClear(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryLedger(memory.New(), newFakeClock(), seqIDs("h"))

	_, err := h.Record(ctx, NewHistoryEntry{TemplateName: "Tax Report"})
	require.NoError(t, err)
	require.NoError(t, h.Clear(ctx))
	assert.Equal(t, []HistoryEntry{}, h.List(ctx))

	require.NoError(t, h.Clear(ctx))
}

func TestHistoryMalformedBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.HistoryKey, []byte(`{"id":1}`)))

	h := NewHistoryLedger(store, newFakeClock(), seqIDs("h"))
	assert.Equal(t, []HistoryEntry{}, h.List(ctx))

	// A malformed ledger is overwritten by the next record.
	_, err := h.Record(ctx, NewHistoryEntry{TemplateName: "Full Export"})
	require.NoError(t, err)
	assert.Len(t, h.List(ctx), 1)
}

func TestTimeAgo(t *testing.T) {
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{2*time.Hour + 10*time.Minute, "2h ago"},
		{23 * time.Hour, "23h ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeAgo(testNow.Add(-tc.ago), testNow), tc.ago.String())
	}
}
