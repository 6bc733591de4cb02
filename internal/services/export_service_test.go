package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/core"
	"exporthub/internal/export"
	"exporthub/internal/storage/memory"
)

type exportFixture struct {
	svc         *ExportService
	history     *HistoryLedger
	connections *ConnectionStore
	publisher   *recordingPublisher
}

func newExportFixture(t *testing.T) exportFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	clock := newFakeClock()
	sim := instantSimulator()

	expenses := NewExpenseStore(store, clock, seqIDs("e"))
	for _, e := range []core.Expense{
		{Date: "2026-02-01", Amount: core.Money{Cents: 1250}, Category: core.Food, Description: "Lunch"},
		{Date: "2026-02-01", Amount: core.Money{Cents: 9000}, Category: core.Bills, Description: "Electricity"},
		{Date: "2026-02-02", Amount: core.Money{Cents: 300}, Category: core.Transportation, Description: "Bus"},
	} {
		_, err := expenses.Add(ctx, e)
		require.NoError(t, err)
	}

	history := NewHistoryLedger(store, clock, seqIDs("h"))
	connections := NewConnectionStore(store, sim)
	publisher := &recordingPublisher{}
	svc := NewExportService(ExportDeps{
		Expenses:    expenses,
		History:     history,
		Connections: connections,
		Transport:   sim,
		Shares:      NewShareRegistry("", 10, time.Hour, seqIDs("share")),
		Publisher:   publisher,
		Clock:       clock,
	})
	return exportFixture{svc: svc, history: history, connections: connections, publisher: publisher}
}

func TestDownloadRecordsLocalDownload(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	res, err := f.svc.Download(ctx, "full-export")
	require.NoError(t, err)

	assert.Equal(t, "full-export.csv", res.Artifact.Filename)
	assert.Equal(t, "text/csv", res.Artifact.MediaType)
	assert.True(t, strings.HasPrefix(res.Artifact.Content, "Date,Amount,Category,Description\n"))
	assert.True(t, res.Transport.Success)

	assert.Equal(t, "Full Export", res.Entry.TemplateName)
	assert.Equal(t, "CSV", res.Entry.Format)
	assert.Equal(t, 3, res.Entry.RecordCount)
	assert.Equal(t, int64(10550), res.Entry.TotalAmount.Cents)
	assert.Equal(t, LocalDownloadDestination, res.Entry.Destination)
	assert.Equal(t, []HistoryEntry{res.Entry}, f.history.List(ctx))

	require.Equal(t, 1, f.publisher.count())
	assert.Equal(t, res.Entry.ID, f.publisher.msgs[0].EntryID)
	assert.Equal(t, int64(10550), f.publisher.msgs[0].TotalCents)
}

func TestDownloadUsesFilteredMetadata(t *testing.T) {
	f := newExportFixture(t)

	res, err := f.svc.Download(context.Background(), "tax-report")
	require.NoError(t, err)

	assert.Equal(t, "tax-report.txt", res.Artifact.Filename)
	assert.Equal(t, "TXT", res.Entry.Format)
	assert.Equal(t, 2, res.Entry.RecordCount)
	assert.Equal(t, int64(9300), res.Entry.TotalAmount.Cents)
}

func TestDownloadToSaveFailureRecordsNothing(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	diskFull := errors.New("disk full")

	_, err := f.svc.DownloadTo(ctx, "full-export", func(export.Artifact) error { return diskFull })
	assert.ErrorIs(t, err, diskFull)
	assert.Empty(t, f.history.List(ctx))
	assert.Zero(t, f.publisher.count())
}

func TestDownloadToSavesBeforeRecording(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	var saved export.Artifact
	var historyAtSave int
	res, err := f.svc.DownloadTo(ctx, "full-export", func(art export.Artifact) error {
		saved = art
		historyAtSave = len(f.history.List(ctx))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, res.Artifact, saved)
	assert.Zero(t, historyAtSave)
	assert.Len(t, f.history.List(ctx), 1)
}

func TestDownloadUnknownTemplate(t *testing.T) {
	f := newExportFixture(t)

	_, err := f.svc.Download(context.Background(), "nope")
	assert.ErrorIs(t, err, export.ErrTemplateNotFound)
	assert.Empty(t, f.history.List(context.Background()))
	assert.Zero(t, f.publisher.count())
}

func TestSendRequiresConnectedService(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, "full-export", "dropbox")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = f.svc.Send(ctx, "full-export", "ftp")
	assert.ErrorIs(t, err, ErrUnknownService)

	_, err = f.connections.Toggle(ctx, "dropbox")
	require.NoError(t, err)

	res, err := f.svc.Send(ctx, "category-analysis", "dropbox")
	require.NoError(t, err)
	assert.Equal(t, "Dropbox", res.Entry.Destination)
	assert.Equal(t, "JSON", res.Entry.Format)
	assert.Equal(t, "dropbox", res.Transport.Destination)
	assert.Len(t, f.history.List(ctx), 1)
}

func TestEmailRecordsAddress(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Email(ctx, "monthly-summary", "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	res, err := f.svc.Email(ctx, "tax-report", " Ana <ana@example.com> ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.Entry.Destination)
	assert.Equal(t, EmailFormat, res.Entry.Format)
	assert.Equal(t, 2, res.Entry.RecordCount)
	assert.Equal(t, EmailServiceID, res.Transport.Destination)
}

func TestBroadcastOneEntryPerConnectedService(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	results, err := f.svc.Broadcast(ctx, "full-export")
	require.NoError(t, err)
	assert.Empty(t, results)

	for _, id := range []string{"slack", EmailServiceID, "notion"} {
		_, err := f.connections.Toggle(ctx, id)
		require.NoError(t, err)
	}

	results, err = f.svc.Broadcast(ctx, "full-export")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Slack", results[0].Entry.Destination)
	assert.Equal(t, "Notion", results[1].Entry.Destination)

	entries := f.history.List(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "Notion", entries[0].Destination)
	assert.Equal(t, 2, f.publisher.count())
}

func TestPublishFailureDoesNotFailExport(t *testing.T) {
	f := newExportFixture(t)
	f.publisher.err = errors.New("broker down")

	res, err := f.svc.Download(context.Background(), "monthly-summary")
	require.NoError(t, err)
	assert.Equal(t, "Monthly Summary", res.Entry.TemplateName)
	assert.Len(t, f.history.List(context.Background()), 1)
}

func TestNilPublisherIsAllowed(t *testing.T) {
	store := memory.New()
	svc := NewExportService(ExportDeps{
		Expenses:    NewExpenseStore(store, nil, nil),
		History:     NewHistoryLedger(store, nil, nil),
		Connections: NewConnectionStore(store, nil),
		Transport:   instantSimulator(),
	})

	res, err := svc.Download(context.Background(), "full-export")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Entry.RecordCount)
	assert.Equal(t, "Date,Amount,Category,Description", res.Artifact.Content)
}

func TestShareAndLookup(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	link, err := f.svc.Share(ctx, "monthly-summary")
	require.NoError(t, err)
	assert.Equal(t, "share-1", link.ID)
	assert.Equal(t, "https://expenses.app/shared/share-1", link.URL)
	assert.NotEmpty(t, link.QRCodePNG)

	art, err := f.svc.Shared(link.ID)
	require.NoError(t, err)
	assert.Equal(t, "monthly-summary.txt", art.Filename)

	_, err = f.svc.Shared("missing")
	assert.ErrorIs(t, err, ErrShareNotFound)

	// Sharing does not touch the history ledger.
	assert.Empty(t, f.history.List(ctx))
}

func TestPreviewDoesNotRecord(t *testing.T) {
	f := newExportFixture(t)

	art, err := f.svc.Preview(context.Background(), "category-analysis")
	require.NoError(t, err)
	assert.Equal(t, "application/json", art.MediaType)
	assert.Empty(t, f.history.List(context.Background()))
}
