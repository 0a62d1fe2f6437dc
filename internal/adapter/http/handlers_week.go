package adapthttp

import (
	"errors"
	"fmt"
	"net/http"

	"mealmate/internal/domain"
)

var errBadQuery = errors.New("invalid query")

// weekFromQuery resolves ?date= to a week window, defaulting to the current
// week.
func (s *Server) weekFromQuery(r *http.Request) (domain.Week, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.planner.CurrentWeek(), nil
	}
	anchor, ok := domain.ParseDate(raw)
	if !ok {
		return domain.Week{}, fmt.Errorf("%w: date must be YYYY-MM-DD", errBadQuery)
	}
	return s.planner.WeekAt(anchor), nil
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.weekFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sort, err := domain.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", errBadQuery, err))
		return
	}
	var mode domain.Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		if mode, err = domain.ParseMode(raw); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", errBadQuery, err))
			return
		}
	}

	view := s.planner.View(week, domain.ViewQuery{
		Search:        r.URL.Query().Get("q"),
		FavoritesOnly: boolQuery(r, "favorites"),
		Sort:          sort,
		Mode:          mode,
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	week, err := s.weekFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start": week.Start().Format(domain.DateLayout),
		"end":   week.End().Format(domain.DateLayout),
		"items": s.planner.Stats(week, boolQuery(r, "favorites")),
	})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"greeting": s.planner.Greeting(),
		"today":    s.planner.Today(),
	})
}
