// Package http serves the export engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"net/netip"
	"sync"
	"time"

	applog "exporthub/internal/log"
	"exporthub/internal/services"
	"exporthub/internal/storage"
)

type Server struct {
	http.Server
	app         *services.App
	clock       services.Clock
	logger      *applog.Logger
	httpLog     *applog.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	clientIPs   clientIPResolver

	shutdownOnce sync.Once
}

// Option customizes a Server.
type Option func(*Server)

// WithTrustedProxies replaces DefaultTrustedProxies as the peers allowed to
// set forwarding headers.
func WithTrustedProxies(prefixes []netip.Prefix) Option {
	return func(s *Server) { s.clientIPs.trusted = prefixes }
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, app *services.App, logger *applog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           applog.Middleware(logger)(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
		app:         app,
		clock:       services.SystemClock{},
		logger:      logger,
		httpLog:     applog.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(60, time.Minute),
		metrics:     &securityMetrics{},
		clientIPs:   clientIPResolver{trusted: DefaultTrustedProxies},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/templates", s.wrap(s.handleListTemplates))
	mux.HandleFunc("GET /api/services", s.wrap(s.handleListServices))

	mux.HandleFunc("GET /api/connections", s.wrap(s.handleListConnections))
	mux.HandleFunc("POST /api/connections/{id}/toggle", s.wrap(s.handleToggleConnection))
	mux.HandleFunc("POST /api/connections/{id}/sync", s.wrap(s.handleSyncConnection))

	mux.HandleFunc("GET /api/history", s.wrap(s.handleListHistory))
	mux.HandleFunc("DELETE /api/history", s.wrap(s.handleClearHistory))

	mux.HandleFunc("GET /api/schedules", s.wrap(s.handleListSchedules))
	mux.HandleFunc("POST /api/schedules", s.wrap(s.handleCreateSchedule))
	mux.HandleFunc("POST /api/schedules/{id}/toggle", s.wrap(s.handleToggleSchedule))
	mux.HandleFunc("DELETE /api/schedules/{id}", s.wrap(s.handleDeleteSchedule))
	mux.HandleFunc("GET /api/schedules/destinations", s.wrap(s.handleScheduleDestinations))

	mux.HandleFunc("GET /api/exports/{templateID}/preview", s.wrap(s.handlePreview))
	mux.HandleFunc("GET /api/exports/{templateID}/download", s.wrap(s.handleDownload))
	mux.HandleFunc("POST /api/exports/{templateID}/send", s.wrap(s.handleSend))
	mux.HandleFunc("POST /api/exports/{templateID}/share", s.wrap(s.handleShare))
	mux.HandleFunc("GET /shared/{shareID}", s.wrap(s.handleShared))

	mux.HandleFunc("GET /api/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrap(s.handleCreateExpense))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		m := s.metrics.snapshot()
		s.logger.Info("HTTP server shutting down",
			"rate_limit_hits", m.RateLimitHits,
			"suspicious_requests", m.SuspiciousRequests,
			"share_misses", m.ShareMisses)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the backend answers. Stores that can list
// their keys are queried, and the stored collections are returned.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.app.Store.(storage.KeyLister)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	keys, err := lister.Keys(ctx)
	if err != nil {
		s.logger.Warn("Readiness check failed", applog.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "collections": keys})
}
