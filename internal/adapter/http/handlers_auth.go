// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"strings"

	"mealmate/internal/domain"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// publicUser is the user as returned to clients, without the password.
type publicUser struct {
	ID       domain.ID `json:"id"`
	Username string    `json:"username"`
}

func toPublic(u domain.User) publicUser {
	return publicUser{ID: u.ID, Username: u.Username}
}

func setUserCookie(w http.ResponseWriter, r *http.Request, id domain.ID) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    string(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400 * 30,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := s.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": toPublic(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	setUserCookie(w, r, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"user": toPublic(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok, err := s.currentUser(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "not logged in"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     toPublic(u),
		"greeting": strings.TrimSuffix(s.planner.Greeting(), "!") + ", " + u.Username + "!",
	})
}
