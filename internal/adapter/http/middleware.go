package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mealmate/internal/domain"
	"mealmate/internal/metrics"
)

type contextKey string

const userContextKey contextKey = "user"

// userCookie remembers the logged-in user id between requests.
const userCookie = "mealmate_user"

// userFromContext returns the user attached by authMiddleware.
func userFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(domain.User)
	return u, ok
}

// currentUser resolves the user cookie. A stale id is treated as logged out.
func (s *Server) currentUser(r *http.Request) (domain.User, bool, error) {
	cookie, err := r.Cookie(userCookie)
	if err != nil || cookie.Value == "" {
		return domain.User{}, false, nil
	}
	u, err := s.authSvc.User(r.Context(), domain.ID(cookie.Value))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

// authMiddleware attaches the logged-in user to the request context and,
// when auth is required, rejects anonymous requests.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authRequired {
			next.ServeHTTP(w, r)
			return
		}

		user, ok, err := s.currentUser(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "login required"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// metricsMiddleware records request counts and latency by matched route.
// The mux sets r.Pattern on the shared request, so it is read after serving.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
