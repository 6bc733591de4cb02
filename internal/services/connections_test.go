package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/storage"
	"exporthub/internal/storage/memory"
)

func TestConnectionToggleTwiceRestoresMembership(t *testing.T) {
	ctx := context.Background()
	c := NewConnectionStore(memory.New(), nil)

	on, err := c.Toggle(ctx, "dropbox")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"dropbox"}, c.List(ctx))

	off, err := c.Toggle(ctx, "dropbox")
	require.NoError(t, err)
	assert.False(t, off)
	assert.Empty(t, c.List(ctx))
}

func TestConnectionListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c := NewConnectionStore(memory.New(), nil)

	for _, id := range []string{"slack", "dropbox", "notion"} {
		_, err := c.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, err := c.Toggle(ctx, "dropbox")
	require.NoError(t, err)

	assert.Equal(t, []string{"slack", "notion"}, c.List(ctx))
}

func TestConnectionMalformedBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.ConnectionsKey, []byte("{not json")))

	c := NewConnectionStore(store, nil)
	assert.Equal(t, []string{}, c.List(ctx))
	assert.False(t, c.IsConnected(ctx, "dropbox"))
}

func TestConnectionToggleWriteFailure(t *testing.T) {
	c := NewConnectionStore(brokenStore{memory.New()}, nil)
	_, err := c.Toggle(context.Background(), "dropbox")
	assert.Error(t, err)
}

func TestConnectDisconnectAndSync(t *testing.T) {
	ctx := context.Background()
	c := NewConnectionStore(memory.New(), instantSimulator())

	_, err := c.Sync(ctx, "notion")
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, c.Connect(ctx, "notion"))
	require.NoError(t, c.Connect(ctx, "notion"))
	assert.Equal(t, []string{"notion"}, c.List(ctx))

	res, err := c.Sync(ctx, "notion")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "notion", res.Destination)

	require.NoError(t, c.Disconnect(ctx, "notion"))
	require.NoError(t, c.Disconnect(ctx, "notion"))
	assert.Empty(t, c.List(ctx))
}

func TestScheduleDestinationsAlwaysOfferEmail(t *testing.T) {
	ctx := context.Background()
	c := NewConnectionStore(memory.New(), nil)

	dests := c.ScheduleDestinations(ctx)
	require.Len(t, dests, 1)
	assert.Equal(t, EmailServiceID, dests[0].ID)

	_, _ = c.Toggle(ctx, "slack")
	_, _ = c.Toggle(ctx, "google-sheets")
	_, _ = c.Toggle(ctx, EmailServiceID)

	var ids []string
	for _, d := range c.ScheduleDestinations(ctx) {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{EmailServiceID, "google-sheets", "slack"}, ids)
}

func TestServiceNameFallsBackToID(t *testing.T) {
	assert.Equal(t, "Google Sheets", ServiceName("google-sheets"))
	assert.Equal(t, "ftp", ServiceName("ftp"))
}
