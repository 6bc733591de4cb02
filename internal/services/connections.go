package services

import (
	"context"
	"fmt"
	"log/slog"

	applog "exporthub/internal/log"
	"exporthub/internal/storage"
	"exporthub/internal/transport"
)

// CloudService describes an export destination.
type CloudService struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// EmailServiceID is always offered as a schedule destination, connected or not.
const EmailServiceID = "email"

// CloudServices is the static destination catalog.
var CloudServices = []CloudService{
	{ID: "google-sheets", Name: "Google Sheets", Icon: "📊", Color: "bg-emerald-500", Description: "Sync to a spreadsheet in real-time"},
	{ID: "dropbox", Name: "Dropbox", Icon: "📦", Color: "bg-blue-500", Description: "Auto-backup to your Dropbox folder"},
	{ID: "onedrive", Name: "OneDrive", Icon: "☁️", Color: "bg-sky-500", Description: "Save directly to Microsoft OneDrive"},
	{ID: "notion", Name: "Notion", Icon: "📝", Color: "bg-neutral-800", Description: "Create a Notion database from expenses"},
	{ID: EmailServiceID, Name: "Email", Icon: "✉️", Color: "bg-violet-500", Description: "Send reports to any email address"},
	{ID: "slack", Name: "Slack", Icon: "💬", Color: "bg-purple-600", Description: "Post summaries to a Slack channel"},
}

// LookupService finds a catalog entry by id.
func LookupService(id string) (CloudService, bool) {
	for _, s := range CloudServices {
		if s.ID == id {
			return s, true
		}
	}
	return CloudService{}, false
}

// ServiceName resolves a destination id to its display name, or returns the id.
func ServiceName(id string) string {
	if s, ok := LookupService(id); ok {
		return s.Name
	}
	return id
}

// ConnectionStore persists the set of destination ids the user has connected.
// Reads never fail: an absent or malformed blob is an empty set.
type ConnectionStore struct {
	store storage.BlobStore
	sim   *transport.Simulator
}

// NewConnectionStore wires the store. sim may be nil, in which case Connect
// and Sync return without a simulated delay.
func NewConnectionStore(store storage.BlobStore, sim *transport.Simulator) *ConnectionStore {
	return &ConnectionStore{store: store, sim: sim}
}

// List returns the connected ids in the order they were connected.
func (c *ConnectionStore) List(ctx context.Context) []string {
	var ids []string
	storage.LoadJSON(ctx, c.store, storage.ConnectionsKey, &ids)
	if ids == nil {
		ids = []string{}
	}
	return ids
}

func (c *ConnectionStore) IsConnected(ctx context.Context, id string) bool {
	for _, v := range c.List(ctx) {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle disconnects id when it is connected and connects it otherwise. It
// returns the new state.
func (c *ConnectionStore) Toggle(ctx context.Context, id string) (bool, error) {
	ids := c.List(ctx)
	connected := true
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			connected = false
			break
		}
	}
	if connected {
		ids = append(ids, id)
	}

	if err := storage.SaveJSON(ctx, c.store, storage.ConnectionsKey, ids); err != nil {
		return !connected, fmt.Errorf("toggle connection %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Connection toggled",
		applog.FieldComponent, applog.ComponentConnections,
		applog.FieldDestination, id,
		"connected", connected)
	return connected, nil
}

// Connect performs a simulated authorization handshake and then connects id.
// It is a no-op for an already connected id.
func (c *ConnectionStore) Connect(ctx context.Context, id string) error {
	if c.IsConnected(ctx, id) {
		return nil
	}
	if c.sim != nil {
		c.sim.Simulate(id, "", transport.ConnectDelay)
	}
	_, err := c.Toggle(ctx, id)
	return err
}

// Disconnect removes id immediately. It is a no-op for an unconnected id.
func (c *ConnectionStore) Disconnect(ctx context.Context, id string) error {
	if !c.IsConnected(ctx, id) {
		return nil
	}
	_, err := c.Toggle(ctx, id)
	return err
}

// Sync simulates a re-sync with a connected destination.
func (c *ConnectionStore) Sync(ctx context.Context, id string) (transport.Result, error) {
	if !c.IsConnected(ctx, id) {
		return transport.Result{}, fmt.Errorf("sync %s: %w", id, ErrNotConnected)
	}
	if c.sim == nil {
		return transport.Result{Success: true, Destination: id}, nil
	}
	return c.sim.Simulate(id, "", transport.SyncDelay), nil
}

// ScheduleDestinations lists where a schedule may deliver: email plus every
// connected cloud service, in catalog order.
func (c *ConnectionStore) ScheduleDestinations(ctx context.Context) []CloudService {
	connected := make(map[string]bool)
	for _, id := range c.List(ctx) {
		connected[id] = true
	}
	email, _ := LookupService(EmailServiceID)
	out := []CloudService{email}
	for _, s := range CloudServices {
		if s.ID != EmailServiceID && connected[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
