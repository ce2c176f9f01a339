package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dollsheet/internal/auth"
	"dollsheet/internal/viewer"
)

func (s *Server) authPage(w http.ResponseWriter, r *http.Request, status int, st viewer.State, avm AuthViewModel) {
	title := "ログイン"
	if avm.Mode == "signup" {
		title = "新規登録"
	}
	vm := PageViewModel{
		Title: title,
		User:  s.currentUser(r.Context(), st),
		Auth:  &avm,
	}
	s.render(w, status, "layout.html", vm)
}

// GET /auth/login
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	st, _ := s.Viewer.Current(r.Context(), sid)
	s.authPage(w, r, http.StatusOK, st, AuthViewModel{Mode: "login"})
}

// GET /auth/signup
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	st, _ := s.Viewer.Current(r.Context(), sid)
	s.authPage(w, r, http.StatusOK, st, AuthViewModel{Mode: "signup"})
}

// POST /auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := s.ensureSession(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	login := r.FormValue("login")
	u, err := s.Accounts.SignIn(ctx, auth.SignInParams{Login: login, Password: r.FormValue("password")})
	s.Metrics.AuthAttempt("signin", err == nil)
	if err != nil {
		st, _ := s.Viewer.Current(ctx, sid)
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.Logger.Error("sign in", zap.Error(err))
			http.Error(w, "sign in failed", http.StatusInternalServerError)
			return
		}
		s.authPage(w, r, http.StatusUnauthorized, st, AuthViewModel{Mode: "login", Login: login, Error: err.Error()})
		return
	}
	if err := s.Viewer.SetUser(ctx, sid, u.ID); err != nil {
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	s.Logger.Info("signed in", zap.String("user_id", u.ID))
	http.Redirect(w, r, "/sheet", http.StatusSeeOther)
}

// POST /auth/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := s.ensureSession(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	p := auth.SignUpParams{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	u, err := s.Accounts.SignUp(ctx, p)
	s.Metrics.AuthAttempt("signup", err == nil)
	if err != nil {
		st, _ := s.Viewer.Current(ctx, sid)
		avm := AuthViewModel{Mode: "signup", Login: p.Username, Email: p.Email}
		switch {
		case errors.Is(err, auth.ErrUserExists):
			avm.Error = err.Error()
			s.authPage(w, r, http.StatusConflict, st, avm)
		case auth.ValidationMessages(err) != nil:
			avm.Errors = auth.ValidationMessages(err)
			s.authPage(w, r, http.StatusUnprocessableEntity, st, avm)
		default:
			s.Logger.Error("sign up", zap.Error(err))
			http.Error(w, "sign up failed", http.StatusInternalServerError)
		}
		return
	}
	if err := s.Viewer.SetUser(ctx, sid, u.ID); err != nil {
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	s.Logger.Info("signed up", zap.String("user_id", u.ID))
	http.Redirect(w, r, "/sheet", http.StatusSeeOther)
}

// POST /auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid := s.sessionID(r); sid != "" {
		if err := s.Viewer.SetUser(r.Context(), sid, ""); err != nil {
			http.Error(w, "failed to save session", http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/sheet", http.StatusSeeOther)
}
