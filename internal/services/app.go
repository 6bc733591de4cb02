package services

import (
	"time"

	"exporthub/internal/storage"
	"exporthub/internal/transport"
)

// AppOptions tunes the stores wired by NewApp. Zero values pick defaults.
type AppOptions struct {
	Clock          Clock
	IDs            IDSource
	ShareIDs       IDSource
	Transport      *transport.Simulator
	Publisher      Publisher
	ShareBaseURL   string
	ShareTTL       time.Duration
	ShareCacheSize int
}

// App bundles every store and the export service over one blob store.
type App struct {
	Store       storage.BlobStore
	Expenses    *ExpenseStore
	History     *HistoryLedger
	Connections *ConnectionStore
	Schedules   *ScheduleStore
	Shares      *ShareRegistry
	Export      *ExportService
}

func NewApp(store storage.BlobStore, opts AppOptions) *App {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Transport == nil {
		opts.Transport = transport.NewSimulator()
	}
	if opts.ShareTTL <= 0 {
		opts.ShareTTL = 24 * time.Hour
	}
	if opts.ShareCacheSize <= 0 {
		opts.ShareCacheSize = 100
	}

	app := &App{
		Store:       store,
		Expenses:    NewExpenseStore(store, opts.Clock, opts.IDs),
		History:     NewHistoryLedger(store, opts.Clock, opts.IDs),
		Connections: NewConnectionStore(store, opts.Transport),
		Schedules:   NewScheduleStore(store, opts.Clock, opts.IDs),
		Shares:      NewShareRegistry(opts.ShareBaseURL, opts.ShareCacheSize, opts.ShareTTL, opts.ShareIDs),
	}
	app.Export = NewExportService(ExportDeps{
		Expenses:    app.Expenses,
		History:     app.History,
		Connections: app.Connections,
		Transport:   opts.Transport,
		Shares:      app.Shares,
		Publisher:   opts.Publisher,
		Clock:       opts.Clock,
	})
	return app
}
