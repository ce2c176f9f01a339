package web

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dollsheet/internal/auth"
	"dollsheet/internal/metrics"
	"dollsheet/internal/viewer"
)

// Accounts is the subset of the account store the handlers need.
type Accounts interface {
	SignUp(ctx context.Context, p auth.SignUpParams) (auth.User, error)
	SignIn(ctx context.Context, p auth.SignInParams) (auth.User, error)
	User(ctx context.Context, id string) (auth.User, bool, error)
}

type Server struct {
	Viewer   *viewer.Service
	Accounts Accounts
	Tmpl     *template.Template
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// StaticDir is searched for icon files before a placeholder is drawn.
	StaticDir    string
	PDFFontPath  string
	CORSOrigins  []string
	CookieSecure bool
}

const cookieName = "dollsheet_sid"

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.Metrics.Handler())

	r.Route("/sheet", func(r chi.Router) {
		r.Get("/", s.handleSheet)
		r.Post("/fetch", s.handleFetch)
		r.Post("/demo", s.handleDemo)
		r.Post("/reset", s.handleReset)
		r.Post("/notice/dismiss", s.handleDismissNotice)
		r.Post("/maneuvers/{index}/status", s.handleManeuverStatus)
		r.Post("/maneuvers/{index}/edit", s.handleManeuverEdit)
	})
	r.Get("/sheet.pdf", s.handleSheetPDF)

	// The session cookie is SameSite=Lax and never sent cross-site, so the
	// export only serves a sheet to same-site callers and CORS does not
	// allow credentials.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins(),
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/sheet", s.handleAPISheet)
	})

	r.Get("/static/nechronica/*", s.handleIcon)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/signup", s.handleSignupForm)
		r.Post("/signup", s.handleSignup)
		r.Post("/logout", s.handleLogout)
	})
	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.CORSOrigins
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/sheet", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// ensureSession returns the caller's session id, issuing a cookie when the
// request carries none.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := s.sessionID(r); id != "" {
		return id
	}
	id := s.Viewer.Store.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// currentUser resolves the signed-in account for the session, if any.
func (s *Server) currentUser(ctx context.Context, st viewer.State) *auth.User {
	if st.UserID == "" || s.Accounts == nil {
		return nil
	}
	u, ok, err := s.Accounts.User(ctx, st.UserID)
	if err != nil {
		s.Logger.Warn("look up user", zap.String("user_id", st.UserID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &u
}

// render executes the template into a buffer first so a failure can still
// become a clean 500 instead of a truncated page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.Tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.Logger.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.Logger.Debug("write response", zap.String("template", name), zap.Error(err))
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
