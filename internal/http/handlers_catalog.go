package http

import (
	"net/http"

	"exporthub/internal/export"
	"exporthub/internal/services"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, export.Templates())
}

type serviceView struct {
	services.CloudService
	Connected bool `json:"connected"`
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	connected := make(map[string]bool)
	for _, id := range s.app.Connections.List(r.Context()) {
		connected[id] = true
	}
	out := make([]serviceView, 0, len(services.CloudServices))
	for _, svc := range services.CloudServices {
		out = append(out, serviceView{CloudService: svc, Connected: connected[svc.ID]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Connections.List(r.Context()))
}

type toggleConnectionResponse struct {
	ID        string `json:"id"`
	Connected bool   `json:"connected"`
}

func (s *Server) handleToggleConnection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	connected, err := s.app.Connections.Toggle(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "toggle_connection", err)
		return
	}
	writeJSON(w, http.StatusOK, toggleConnectionResponse{ID: id, Connected: connected})
}

func (s *Server) handleSyncConnection(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Connections.Sync(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "sync_connection", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
