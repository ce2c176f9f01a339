package web

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dollsheet/internal/auth"
	"dollsheet/internal/nechronica"
	"dollsheet/internal/viewer"
)

type statusForm struct {
	Field string `validate:"required,oneof=used damaged"`
	Value string `validate:"required,boolean"`
}

type editForm struct {
	Name        *string `validate:"omitempty,min=1,max=64"`
	Cost        *string `validate:"omitempty,numeric"`
	Timing      *string `validate:"omitempty,max=32"`
	Range       *string `validate:"omitempty,max=32"`
	Description *string `validate:"omitempty,max=2000"`
	Attachment  *string `validate:"omitempty,oneof=position main-class sub-class head arm body leg"`
	PowerType   *string `validate:"omitempty,numeric"`
}

var editFieldLabels = map[string]string{
	"Name":        "name",
	"Cost":        "cost",
	"Timing":      "timing",
	"Range":       "range",
	"Description": "description",
	"Attachment":  "attachment",
	"PowerType":   "power_type",
}

func maneuverIndex(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	return i, err == nil && i >= 0
}

// POST /sheet/maneuvers/{index}/status
func (s *Server) handleManeuverStatus(w http.ResponseWriter, r *http.Request) {
	index, ok := maneuverIndex(r)
	if !ok {
		http.Error(w, "bad maneuver index", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := statusForm{Field: r.FormValue("field"), Value: r.FormValue("value")}
	if err := validate.Struct(form); err != nil {
		http.Error(w, "field must be used or damaged and value a boolean", http.StatusBadRequest)
		return
	}
	field, _ := nechronica.ParseStatusField(form.Field)
	value, _ := strconv.ParseBool(form.Value)

	sid := s.ensureSession(w, r)
	err := s.Viewer.SetStatus(r.Context(), sid, index, field, value)
	s.afterManeuverCommand(w, r, sid, index, err, nil)
}

// POST /sheet/maneuvers/{index}/edit
func (s *Server) handleManeuverEdit(w http.ResponseWriter, r *http.Request) {
	index, ok := maneuverIndex(r)
	if !ok {
		http.Error(w, "bad maneuver index", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := editForm{
		Name:        postedField(r, "name"),
		Cost:        postedField(r, "cost"),
		Timing:      postedField(r, "timing"),
		Range:       postedField(r, "range"),
		Description: postedField(r, "description"),
		Attachment:  postedField(r, "attachment"),
		PowerType:   postedField(r, "power_type"),
	}
	sid := s.ensureSession(w, r)
	if err := validate.Struct(form); err != nil {
		s.afterManeuverCommand(w, r, sid, index, err, formErrors(err))
		return
	}

	patch, err := form.patch()
	if err != nil {
		s.afterManeuverCommand(w, r, sid, index, err, map[string]string{"form": "コストと種別は整数で入力してください"})
		return
	}
	err = s.Viewer.ApplyEdit(r.Context(), sid, index, patch)
	s.afterManeuverCommand(w, r, sid, index, err, nil)
}

// postedField returns nil when the form did not carry key at all.
func postedField(r *http.Request, key string) *string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := strings.TrimSpace(r.PostForm.Get(key))
	return &v
}

func (f editForm) patch() (nechronica.ManeuverPatch, error) {
	var p nechronica.ManeuverPatch
	p.Name = f.Name
	p.Timing = f.Timing
	p.Range = f.Range
	p.Description = f.Description
	if f.Attachment != nil && *f.Attachment != "" {
		a := nechronica.Attachment(*f.Attachment)
		p.Attachment = &a
	}
	for _, c := range []struct {
		raw *string
		dst **int
	}{{f.Cost, &p.Cost}, {f.PowerType, &p.PowerType}} {
		if c.raw == nil || *c.raw == "" {
			continue
		}
		n, err := strconv.Atoi(*c.raw)
		if err != nil {
			return p, err
		}
		*c.dst = &n
	}
	return p, nil
}

func formErrors(err error) map[string]string {
	out := map[string]string{}
	for field, msg := range auth.ValidationMessages(err) {
		if key, ok := editFieldLabels[field]; ok {
			field = key
		}
		out[field] = msg
	}
	return out
}

// afterManeuverCommand maps the command result to a response. htmx callers
// get the re-rendered card; everyone else is redirected to it.
func (s *Server) afterManeuverCommand(w http.ResponseWriter, r *http.Request, sid string, index int, err error, fieldErrors map[string]string) {
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, nechronica.ErrManeuverIndex):
		http.Error(w, "maneuver not found", http.StatusNotFound)
		return
	case errors.Is(err, viewer.ErrNoSheet):
		http.Error(w, "no sheet loaded", http.StatusConflict)
		return
	case fieldErrors != nil, errors.Is(err, nechronica.ErrInvalidPatch):
		status = http.StatusUnprocessableEntity
		if fieldErrors == nil {
			fieldErrors = map[string]string{"form": err.Error()}
		}
	default:
		s.Logger.Error("maneuver command", zap.Int("index", index), zap.Error(err))
		http.Error(w, "failed to update maneuver", http.StatusInternalServerError)
		return
	}

	if !isHTMX(r) {
		if status != http.StatusOK {
			http.Error(w, joinErrors(fieldErrors), status)
			return
		}
		http.Redirect(w, r, "/sheet#maneuver-"+strconv.Itoa(index), http.StatusSeeOther)
		return
	}

	st, gerr := s.Viewer.Current(r.Context(), sid)
	view := st.View()
	if gerr != nil || view == nil || index >= len(view.Maneuvers) {
		http.Error(w, "maneuver not found", http.StatusNotFound)
		return
	}
	vm := newManeuverViewModel(index, view.Maneuvers[index])
	vm.Errors = fieldErrors
	s.render(w, status, "maneuver.html", vm)
}

func joinErrors(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+": "+v)
	}
	slices.Sort(parts)
	return strings.Join(parts, "; ")
}
