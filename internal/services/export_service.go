package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"exporthub/internal/amqp"
	"exporthub/internal/export"
	applog "exporthub/internal/log"
	"exporthub/internal/transport"
)

// LocalDownloadDestination is the history destination of local downloads.
const LocalDownloadDestination = "Local Download"

// EmailFormat is the history format of emailed reports.
const EmailFormat = "EMAIL"

// Publisher announces recorded exports. *amqp.Client implements it.
type Publisher interface {
	PublishExportRecorded(ctx context.Context, msg *amqp.ExportRecordedMessage) error
}

// ExportResult is the outcome of one export to one destination.
type ExportResult struct {
	Artifact  export.Artifact  `json:"artifact"`
	Transport transport.Result `json:"transport"`
	Entry     HistoryEntry     `json:"entry"`
}

// ExportService runs the export flow: pick a template, filter once, generate,
// simulate delivery and record the result in the history ledger.
type ExportService struct {
	expenses    *ExpenseStore
	history     *HistoryLedger
	connections *ConnectionStore
	sim         *transport.Simulator
	shares      *ShareRegistry
	publisher   Publisher
	clock       Clock
}

// ExportDeps groups the collaborators of ExportService. Publisher and Shares
// are optional.
type ExportDeps struct {
	Expenses    *ExpenseStore
	History     *HistoryLedger
	Connections *ConnectionStore
	Transport   *transport.Simulator
	Shares      *ShareRegistry
	Publisher   Publisher
	Clock       Clock
}

func NewExportService(deps ExportDeps) *ExportService {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Transport == nil {
		deps.Transport = transport.NewSimulator()
	}
	return &ExportService{
		expenses:    deps.Expenses,
		history:     deps.History,
		connections: deps.Connections,
		sim:         deps.Transport,
		shares:      deps.Shares,
		publisher:   deps.Publisher,
		clock:       deps.Clock,
	}
}

// Preview generates the artifact without delivering or recording it.
func (s *ExportService) Preview(ctx context.Context, templateID string) (export.Artifact, error) {
	tmpl, ok := export.Lookup(templateID)
	if !ok {
		return export.Artifact{}, fmt.Errorf("preview %s: %w", templateID, export.ErrTemplateNotFound)
	}
	return export.Prepare(tmpl, s.expenses.List(ctx), s.clock.Now()), nil
}

// Download prepares the artifact as a named local file and records it.
func (s *ExportService) Download(ctx context.Context, templateID string) (ExportResult, error) {
	return s.DownloadTo(ctx, templateID, nil)
}

// DownloadTo is Download with a save step. save receives the artifact after
// the simulated transfer; when it fails nothing is recorded and its error is
// returned.
func (s *ExportService) DownloadTo(ctx context.Context, templateID string, save func(export.Artifact) error) (ExportResult, error) {
	return s.deliver(ctx, templateID, "local", LocalDownloadDestination, transport.LocalDownloadDelay, "", save)
}

// Send delivers the artifact to a connected cloud service.
func (s *ExportService) Send(ctx context.Context, templateID, serviceID string) (ExportResult, error) {
	svc, ok := LookupService(serviceID)
	if !ok {
		return ExportResult{}, fmt.Errorf("send to %s: %w", serviceID, ErrUnknownService)
	}
	if !s.connections.IsConnected(ctx, serviceID) {
		return ExportResult{}, fmt.Errorf("send to %s: %w", serviceID, ErrNotConnected)
	}
	return s.deliver(ctx, templateID, svc.ID, svc.Name, transport.DefaultDelay, "", nil)
}

// Email sends the artifact to an address. The history destination is the
// address itself.
func (s *ExportService) Email(ctx context.Context, templateID, address string) (ExportResult, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(address))
	if err != nil {
		return ExportResult{}, fmt.Errorf("email %s: %w", address, ErrInvalidEmail)
	}
	return s.deliver(ctx, templateID, EmailServiceID, addr.Address, transport.EmailDelay, EmailFormat, nil)
}

// Broadcast sends the artifact to every connected service at once, recording
// one history entry per destination. The email service is skipped because it
// needs an address.
func (s *ExportService) Broadcast(ctx context.Context, templateID string) ([]ExportResult, error) {
	tmpl, ok := export.Lookup(templateID)
	if !ok {
		return nil, fmt.Errorf("broadcast %s: %w", templateID, export.ErrTemplateNotFound)
	}

	var targets []string
	for _, id := range s.connections.List(ctx) {
		if _, known := LookupService(id); known && id != EmailServiceID {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return []ExportResult{}, nil
	}

	art := export.Prepare(tmpl, s.expenses.List(ctx), s.clock.Now())
	results := make([]ExportResult, 0, len(targets))
	for _, res := range s.sim.FanOut(targets, art.Content, transport.DefaultDelay) {
		entry, err := s.record(ctx, tmpl, art, ServiceName(res.Destination), "")
		if err != nil {
			return results, err
		}
		results = append(results, ExportResult{Artifact: art, Transport: res, Entry: entry})
	}
	return results, nil
}

func (s *ExportService) deliver(ctx context.Context, templateID, transportID, destination string, delay time.Duration, format string, save func(export.Artifact) error) (ExportResult, error) {
	tmpl, ok := export.Lookup(templateID)
	if !ok {
		return ExportResult{}, fmt.Errorf("export %s: %w", templateID, export.ErrTemplateNotFound)
	}

	art := export.Prepare(tmpl, s.expenses.List(ctx), s.clock.Now())
	res := s.sim.Simulate(transportID, art.Content, delay)
	if save != nil {
		if err := save(art); err != nil {
			return ExportResult{}, err
		}
	}

	entry, err := s.record(ctx, tmpl, art, destination, format)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Artifact: art, Transport: res, Entry: entry}, nil
}

// record writes the history entry and announces it. Publishing is best
// effort; the export already happened.
func (s *ExportService) record(ctx context.Context, tmpl export.Template, art export.Artifact, destination, format string) (HistoryEntry, error) {
	if format == "" {
		format = strings.ToUpper(tmpl.Format.Extension())
	}
	entry, err := s.history.Record(ctx, NewHistoryEntry{
		TemplateName: tmpl.Name,
		Format:       format,
		RecordCount:  art.RecordCount,
		TotalAmount:  art.TotalAmount,
		Destination:  destination,
	})
	if err != nil {
		return HistoryEntry{}, err
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping export event",
			applog.FieldComponent, applog.ComponentExport)
		return entry, nil
	}
	msg := &amqp.ExportRecordedMessage{
		EntryID:      entry.ID,
		TemplateName: entry.TemplateName,
		Format:       entry.Format,
		RecordCount:  entry.RecordCount,
		TotalCents:   entry.TotalAmount.Cents,
		Destination:  entry.Destination,
		RecordedAt:   entry.Timestamp,
	}
	if err := s.publisher.PublishExportRecorded(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export event",
			applog.FieldComponent, applog.ComponentExport,
			"entry_id", entry.ID,
			applog.FieldError, err)
	}
	return entry, nil
}

// Share creates a share link for the template's current artifact.
func (s *ExportService) Share(ctx context.Context, templateID string) (ShareLink, error) {
	if s.shares == nil {
		return ShareLink{}, fmt.Errorf("share %s: sharing is not configured", templateID)
	}
	art, err := s.Preview(ctx, templateID)
	if err != nil {
		return ShareLink{}, err
	}
	return s.shares.Create(art)
}

// Shared returns the artifact behind a share id.
func (s *ExportService) Shared(shareID string) (export.Artifact, error) {
	if s.shares == nil {
		return export.Artifact{}, ErrShareNotFound
	}
	return s.shares.Lookup(shareID)
}
