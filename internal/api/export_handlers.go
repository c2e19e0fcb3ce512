package api

import (
	"fmt"
	"net/http"

	"github.com/whenworksapp/whenworks-server/internal/http/response"
)

// handleExportCSV serves the room roster as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		response.BadRequest(w, "room id is required", s.logger)
		return
	}

	data, filename, err := s.rooms.ExportCSV(r.Context(), roomID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write csv export", "room_id", roomID, "error", err)
	}
}

// handleExportICS serves the room's common dates as an iCalendar download.
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		response.BadRequest(w, "room id is required", s.logger)
		return
	}

	text, filename, err := s.rooms.ExportICS(r.Context(), roomID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		s.logger.Error("Failed to write ics export", "room_id", roomID, "error", err)
	}
}
