package adapthttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mealmate/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	meals   *app.MealStore
	planner *app.PlannerService
	authSvc *app.AuthService
	log     *zap.Logger
	webDir  string

	authRequired bool
}

// New creates a Server wired to the given application services.
func New(meals *app.MealStore, planner *app.PlannerService, authSvc *app.AuthService, webDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{meals: meals, planner: planner, authSvc: authSvc, webDir: webDir, log: log}
}

// RequireAuth makes the planner endpoints reject requests without a
// logged-in user.
func (s *Server) RequireAuth(required bool) *Server {
	s.authRequired = required
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("GET /api/greeting", s.handleGreeting)

	mux.Handle("GET /api/meals", s.authMiddleware(http.HandlerFunc(s.handleMealList)))
	mux.Handle("POST /api/meals", s.authMiddleware(http.HandlerFunc(s.handleMealCreate)))
	mux.Handle("GET /api/meals/{id}", s.authMiddleware(http.HandlerFunc(s.handleMealGet)))
	mux.Handle("PUT /api/meals/{id}", s.authMiddleware(http.HandlerFunc(s.handleMealReplace)))
	mux.Handle("PATCH /api/meals/{id}", s.authMiddleware(http.HandlerFunc(s.handleMealPatch)))
	mux.Handle("DELETE /api/meals/{id}", s.authMiddleware(http.HandlerFunc(s.handleMealDelete)))
	mux.Handle("POST /api/meals/{id}/favorite", s.authMiddleware(http.HandlerFunc(s.handleMealFavorite)))

	mux.Handle("GET /api/week", s.authMiddleware(http.HandlerFunc(s.handleWeek)))
	mux.Handle("GET /api/stats", s.authMiddleware(http.HandlerFunc(s.handleStats)))

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(metricsMiddleware(withNoCache(mux)))
}
