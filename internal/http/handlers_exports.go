package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"exporthub/internal/export"
	applog "exporthub/internal/log"
	"exporthub/internal/services"
)

func writeArtifact(w http.ResponseWriter, art export.Artifact, attachment bool) {
	w.Header().Set("Content-Type", art.MediaType+"; charset=utf-8")
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	}
	w.Header().Set("X-Record-Count", strconv.Itoa(art.RecordCount))
	w.Header().Set("X-Total-Amount", art.TotalAmount.Decimal())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(art.Content))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	art, err := s.app.Export.Preview(r.Context(), r.PathValue("templateID"))
	if err != nil {
		s.writeServiceError(w, r, "preview", err)
		return
	}
	writeArtifact(w, art, false)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Export.Download(r.Context(), r.PathValue("templateID"))
	if err != nil {
		s.writeServiceError(w, r, applog.OpDownload, err)
		return
	}
	s.httpLog.LogExport(r.Context(), applog.OpDownload, res.Entry.TemplateName, res.Entry.Destination,
		res.Entry.RecordCount, res.Entry.TotalAmount.Cents)
	writeArtifact(w, res.Artifact, true)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	templateID := r.PathValue("templateID")
	ctx := r.Context()

	var (
		results []services.ExportResult
		err     error
	)
	switch {
	case req.Broadcast:
		results, err = s.app.Export.Broadcast(ctx, templateID)
	case req.Service == services.EmailServiceID:
		var res services.ExportResult
		res, err = s.app.Export.Email(ctx, templateID, req.Address)
		results = []services.ExportResult{res}
	case req.Service != "":
		var res services.ExportResult
		res, err = s.app.Export.Send(ctx, templateID, req.Service)
		results = []services.ExportResult{res}
	default:
		writeError(w, http.StatusBadRequest, "service or broadcast is required")
		return
	}
	if err != nil {
		s.writeServiceError(w, r, applog.OpSend, err)
		return
	}

	entries := make([]services.HistoryEntry, 0, len(results))
	for _, res := range results {
		s.httpLog.LogExport(ctx, applog.OpSend, res.Entry.TemplateName, res.Entry.Destination,
			res.Entry.RecordCount, res.Entry.TotalAmount.Cents)
		entries = append(entries, res.Entry)
	}
	writeJSON(w, http.StatusOK, entries)
}

type shareResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	QRCode string `json:"qrCode"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	link, err := s.app.Export.Share(r.Context(), r.PathValue("templateID"))
	if err != nil {
		s.writeServiceError(w, r, applog.OpShare, err)
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{
		ID:     link.ID,
		URL:    link.URL,
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(link.QRCodePNG),
	})
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareID")
	art, err := s.app.Export.Shared(shareID)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) && validShareID(shareID) {
			s.metrics.recordShareMiss()
		}
		s.writeServiceError(w, r, "shared", err)
		return
	}
	writeArtifact(w, art, false)
}
