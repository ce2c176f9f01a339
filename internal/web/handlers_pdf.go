package web

import (
	"net/http"

	"go.uber.org/zap"

	"dollsheet/internal/sheetpdf"
)

// GET /sheet.pdf
func (s *Server) handleSheetPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := s.sessionID(r)
	if sid == "" {
		http.Redirect(w, r, "/sheet", http.StatusFound)
		return
	}
	st, err := s.Viewer.Current(ctx, sid)
	if err != nil || !st.HasSheet() {
		http.Redirect(w, r, "/sheet", http.StatusFound)
		return
	}
	pdf, err := sheetpdf.Generate(st.View(), sheetpdf.Options{
		FontPath: s.PDFFontPath,
		SheetID:  st.SheetID,
	})
	if err != nil {
		s.Logger.Error("render sheet pdf", zap.String("sheet_id", st.SheetID), zap.Error(err))
		http.Error(w, "failed to render pdf", http.StatusInternalServerError)
		return
	}
	name := "sheet.pdf"
	if st.SheetID != "" {
		name = "sheet-" + st.SheetID + ".pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(pdf); err != nil {
		s.Logger.Debug("write pdf", zap.Error(err))
	}
}
