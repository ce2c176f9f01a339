package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dollsheet/internal/charasheet"
	"dollsheet/internal/nechronica"
	"dollsheet/internal/viewer"
)

var validate = validator.New()

type fetchForm struct {
	Identifier string `validate:"required,max=512"`
}

// GET /sheet
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Cache-Control", "no-store")

	sid := s.ensureSession(w, r)
	st, err := s.Viewer.Current(ctx, sid)
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, "layout.html", s.pageViewModel(r, st, nil))
}

func (s *Server) pageViewModel(r *http.Request, st viewer.State, formErrors map[string]string) PageViewModel {
	vm := PageViewModel{
		Title:  "ネクロニカ キャラクターシート",
		User:   s.currentUser(r.Context(), st),
		Notice: st.Notice,
		Input: InputViewModel{
			Identifier:    st.Input,
			SampleSheetID: charasheet.SampleSheetID,
			Pending:       st.Pending,
			Errors:        formErrors,
		},
		Sheet: newSheetViewModel(st.SheetID, st.View()),
	}
	if vm.Sheet != nil {
		vm.Title = vm.Sheet.Sheet.Name + " | " + vm.Title
	}
	return vm
}

// POST /sheet/fetch
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := s.ensureSession(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := fetchForm{Identifier: strings.TrimSpace(r.FormValue("identifier"))}
	if err := validate.Struct(form); err != nil {
		st, _ := s.Viewer.Current(ctx, sid)
		st.Input = form.Identifier
		s.render(w, http.StatusUnprocessableEntity, "layout.html", s.pageViewModel(r, st, map[string]string{
			"Identifier": "キャラクターシートのURLまたはIDを入力してください",
		}))
		return
	}

	err := s.Viewer.Load(ctx, sid, form.Identifier)
	s.afterLoad(w, r, err)
}

// POST /sheet/demo
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	err := s.Viewer.LoadDemo(r.Context(), sid)
	s.afterLoad(w, r, err)
}

// afterLoad redirects back to the sheet. Fetch and parse failures are
// already on the session as a notice, so only storage errors fail here.
func (s *Server) afterLoad(w http.ResponseWriter, r *http.Request, err error) {
	var fe *charasheet.FetchError
	var pe *nechronica.ParseError
	switch {
	case err == nil, errors.Is(err, viewer.ErrStaleFetch), errors.As(err, &fe), errors.As(err, &pe):
		http.Redirect(w, r, "/sheet", http.StatusSeeOther)
	default:
		s.Logger.Error("load sheet", zap.Error(err))
		http.Error(w, "failed to load sheet", http.StatusInternalServerError)
	}
}

// POST /sheet/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	if err := s.Viewer.Reset(r.Context(), sid); err != nil {
		http.Error(w, "failed to reset", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/sheet", http.StatusSeeOther)
}

// POST /sheet/notice/dismiss
func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	if err := s.Viewer.DismissNotice(r.Context(), sid); err != nil {
		http.Error(w, "failed to dismiss", http.StatusInternalServerError)
		return
	}
	if isHTMX(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/sheet", http.StatusSeeOther)
}
