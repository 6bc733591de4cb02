package http

import (
	"net/http"

	"exporthub/internal/services"
)

type historyView struct {
	services.HistoryEntry
	TimeAgo string `json:"timeAgo"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	entries := s.app.History.List(r.Context())
	out := make([]historyView, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyView{HistoryEntry: e, TimeAgo: services.TimeAgo(e.Timestamp, now)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.History.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "clear_history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
