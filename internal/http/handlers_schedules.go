package http

import (
	"net/http"

	"exporthub/internal/core"
	"exporthub/internal/services"
)

type scheduleView struct {
	services.Schedule
	TemplateName    string `json:"templateName"`
	DestinationName string `json:"destinationName"`
}

func newScheduleView(sc services.Schedule) scheduleView {
	return scheduleView{Schedule: sc, TemplateName: sc.TemplateName(), DestinationName: sc.DestinationName()}
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	all := s.app.Schedules.List(r.Context())
	out := make([]scheduleView, 0, len(all))
	for _, sc := range all {
		out = append(out, newScheduleView(sc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc, err := s.app.Schedules.Create(r.Context(),
		sanitizeInput(req.TemplateID), core.Frequency(sanitizeInput(req.Frequency)), sanitizeInput(req.Destination))
	if err != nil {
		s.writeServiceError(w, r, "create_schedule", err)
		return
	}
	writeJSON(w, http.StatusCreated, newScheduleView(sc))
}

func (s *Server) handleToggleSchedule(w http.ResponseWriter, r *http.Request) {
	sc, err := s.app.Schedules.ToggleEnabled(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "toggle_schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, newScheduleView(sc))
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Schedules.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, "delete_schedule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScheduleDestinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Connections.ScheduleDestinations(r.Context()))
}
