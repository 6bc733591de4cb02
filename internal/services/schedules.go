package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"exporthub/internal/core"
	"exporthub/internal/export"
	applog "exporthub/internal/log"
	"exporthub/internal/storage"
)

// Schedule is a stored intent to repeat an export. Nothing in this module
// executes it; NextRun is computed once at creation for display.
type Schedule struct {
	ID          string         `json:"id"`
	TemplateID  string         `json:"templateId"`
	Frequency   core.Frequency `json:"frequency"`
	Destination string         `json:"destination"`
	Enabled     bool           `json:"enabled"`
	LastRun     *time.Time     `json:"lastRun"`
	NextRun     time.Time      `json:"nextRun"`
}

// TemplateName resolves the referenced template, falling back to the raw id.
func (s Schedule) TemplateName() string { return export.TemplateName(s.TemplateID) }

// DestinationName resolves the referenced destination, falling back to the raw id.
func (s Schedule) DestinationName() string { return ServiceName(s.Destination) }

// ScheduleStore persists schedules. Template and destination ids are not
// checked against the registry or the connection set.
type ScheduleStore struct {
	store storage.BlobStore
	clock Clock
	newID IDSource
}

func NewScheduleStore(store storage.BlobStore, clock Clock, ids IDSource) *ScheduleStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = NewUUID
	}
	return &ScheduleStore{store: store, clock: clock, newID: ids}
}

// List returns all schedules in persisted order.
func (s *ScheduleStore) List(ctx context.Context) []Schedule {
	var all []Schedule
	storage.LoadJSON(ctx, s.store, storage.SchedulesKey, &all)
	if all == nil {
		all = []Schedule{}
	}
	return all
}

// Get returns the schedule with the given id.
func (s *ScheduleStore) Get(ctx context.Context, id string) (Schedule, error) {
	for _, sc := range s.List(ctx) {
		if sc.ID == id {
			return sc, nil
		}
	}
	return Schedule{}, fmt.Errorf("get schedule %s: %w", id, ErrScheduleNotFound)
}

// Create stores a new enabled schedule whose NextRun is one frequency unit
// from now.
func (s *ScheduleStore) Create(ctx context.Context, templateID string, frequency core.Frequency, destination string) (Schedule, error) {
	if !frequency.Valid() {
		return Schedule{}, fmt.Errorf("create schedule: %w: %q", core.ErrInvalidFrequency, frequency)
	}
	if strings.TrimSpace(destination) == "" {
		return Schedule{}, fmt.Errorf("create schedule: %w", ErrEmptyDestination)
	}

	sc := Schedule{
		ID:          s.newID(),
		TemplateID:  templateID,
		Frequency:   frequency,
		Destination: destination,
		Enabled:     true,
		NextRun:     frequency.Next(s.clock.Now()),
	}
	if err := s.save(ctx, sc); err != nil {
		return Schedule{}, err
	}

	slog.InfoContext(ctx, "Export schedule created",
		applog.FieldComponent, applog.ComponentSchedules,
		"schedule_id", sc.ID,
		applog.FieldTemplate, templateID,
		"frequency", frequency,
		applog.FieldDestination, destination,
		"next_run", sc.NextRun.Format(time.RFC3339))
	return sc, nil
}

// ToggleEnabled flips Enabled without touching LastRun or NextRun.
func (s *ScheduleStore) ToggleEnabled(ctx context.Context, id string) (Schedule, error) {
	sc, err := s.Get(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	sc.Enabled = !sc.Enabled
	if err := s.save(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

// Delete removes the schedule. Deleting an unknown id is not an error.
func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	all := s.List(ctx)
	kept := all[:0]
	for _, sc := range all {
		if sc.ID != id {
			kept = append(kept, sc)
		}
	}
	if err := storage.SaveJSON(ctx, s.store, storage.SchedulesKey, kept); err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	return nil
}

// save replaces the schedule in place, or appends it when new.
func (s *ScheduleStore) save(ctx context.Context, sc Schedule) error {
	all := s.List(ctx)
	replaced := false
	for i := range all {
		if all[i].ID == sc.ID {
			all[i] = sc
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, sc)
	}
	if err := storage.SaveJSON(ctx, s.store, storage.SchedulesKey, all); err != nil {
		return fmt.Errorf("save schedule %s: %w", sc.ID, err)
	}
	return nil
}
