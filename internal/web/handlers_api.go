package web

import (
	"net/http"

	"dollsheet/internal/nechronica"
)

type sheetResponse struct {
	SheetID string                     `json:"sheetId"`
	Sheet   *nechronica.Sheet          `json:"sheet"`
	Regions []nechronica.RegionSummary `json:"regions"`
}

// GET /api/sheet returns the session's sheet with local flags and edits
// applied.
func (s *Server) handleAPISheet(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(r)
	if sid == "" {
		respondError(w, http.StatusNotFound, "No sheet loaded")
		return
	}
	st, err := s.Viewer.Current(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	view := st.View()
	if view == nil {
		respondError(w, http.StatusNotFound, "No sheet loaded")
		return
	}
	respondJSON(w, http.StatusOK, sheetResponse{
		SheetID: st.SheetID,
		Sheet:   view,
		Regions: view.Regions(),
	})
}
