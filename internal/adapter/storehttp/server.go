// Package storehttp serves meal and user repositories over the json-server
// style REST contract consumed by the recordstore client.
package storehttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mealmate/internal/domain"
)

// Repository is everything the record store serves.
type Repository interface {
	domain.MealRepository
	domain.UserRepository
}

// Server exposes a Repository as /meals and /users.
type Server struct {
	repo Repository
	log  *zap.Logger
}

// New creates a Server. A nil logger disables logging.
func New(repo Repository, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{repo: repo, log: log}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /meals", s.listMeals)
	mux.HandleFunc("POST /meals", s.createMeal)
	mux.HandleFunc("GET /meals/{id}", s.getMeal)
	mux.HandleFunc("PUT /meals/{id}", s.replaceMeal)
	mux.HandleFunc("PATCH /meals/{id}", s.patchMeal)
	mux.HandleFunc("DELETE /meals/{id}", s.deleteMeal)

	mux.HandleFunc("GET /users", s.findUsers)
	mux.HandleFunc("POST /users", s.createUser)
	mux.HandleFunc("GET /users/{id}", s.getUser)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Debug("record store request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := s.repo.ListMeals(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) getMeal(w http.ResponseWriter, r *http.Request) {
	m, err := s.repo.GetMeal(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var m domain.Meal
	if err := parseJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.repo.CreateMeal(r.Context(), m)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) replaceMeal(w http.ResponseWriter, r *http.Request) {
	var m domain.Meal
	if err := parseJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.repo.ReplaceMeal(r.Context(), domain.ID(r.PathValue("id")), m)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) patchMeal(w http.ResponseWriter, r *http.Request) {
	var p domain.MealPatch
	if err := parseJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.repo.PatchMeal(r.Context(), domain.ID(r.PathValue("id")), p)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteMeal(r.Context(), domain.ID(r.PathValue("id"))); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) findUsers(w http.ResponseWriter, r *http.Request) {
	q := domain.UserQuery{
		Username: r.URL.Query().Get("username"),
		Password: r.URL.Query().Get("password"),
	}
	users, err := s.repo.FindUsers(r.Context(), q)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.repo.GetUser(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := parseJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.repo.CreateUser(r.Context(), u)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMealNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		s.log.Error("record store operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func parseJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
