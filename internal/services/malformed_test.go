package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/core"
	"exporthub/internal/storage"
	"exporthub/internal/storage/memory"
)

// A single mistyped element makes the whole collection read as empty, and the
// next write replaces it with clean state.

func TestConnectionsWithMistypedElementReadEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.ConnectionsKey, []byte(`["dropbox", 7]`)))

	c := NewConnectionStore(store, nil)
	assert.Equal(t, []string{}, c.List(ctx))
	assert.False(t, c.IsConnected(ctx, "dropbox"))

	connected, err := c.Toggle(ctx, "slack")
	require.NoError(t, err)
	assert.True(t, connected)

	raw, err := store.Get(ctx, storage.ConnectionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["slack"]`, string(raw))
}

func TestHistoryWithMistypedElementReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.HistoryKey, []byte(
		`[{"id":"a","templateName":"Full Export","format":"CSV","recordCount":"x","totalAmount":100,"destination":"Dropbox","timestamp":"2026-02-01T10:00:00Z"}]`)))

	h := NewHistoryLedger(store, newFakeClock(), seqIDs("h"))
	assert.Equal(t, []HistoryEntry{}, h.List(ctx))

	_, err := h.Record(ctx, NewHistoryEntry{TemplateName: "Tax Report", Format: "TXT", Destination: "Slack"})
	require.NoError(t, err)

	var stored []HistoryEntry
	raw, err := store.Get(ctx, storage.HistoryKey)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "h-1", stored[0].ID)
}

func TestSchedulesWithMistypedElementReadEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.SchedulesKey, []byte(
		`[{"id":"s1","templateId":"full-export","frequency":"daily","destination":"email","enabled":"yes","lastRun":null,"nextRun":"2026-02-04T10:30:00Z"}]`)))

	s := NewScheduleStore(store, newFakeClock(), seqIDs("s"))
	assert.Equal(t, []Schedule{}, s.List(ctx))

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	created, err := s.Create(ctx, "tax-report", core.Weekly, "email")
	require.NoError(t, err)
	all := s.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestExpensesWithMistypedElementReadEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.ExpensesKey, []byte(
		`[{"id":"e1","date":"2026-02-01","amount":1250,"category":"Food","description":"Lunch"},{"id":"e2","date":"2026-02-02","amount":"lots","category":"Food","description":"Dinner"}]`)))

	e := NewExpenseStore(store, newFakeClock(), seqIDs("e"))
	assert.Equal(t, []core.Expense{}, e.List(ctx))
}
