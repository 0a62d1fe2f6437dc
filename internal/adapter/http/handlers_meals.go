package adapthttp

import (
	"fmt"
	"net/http"

	"mealmate/internal/domain"
)

func (s *Server) handleMealList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.meals.Meals()})
}

func (s *Server) handleMealGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.meals.Get(domain.ID(r.PathValue("id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meal": m})
}

func (s *Server) handleMealCreate(w http.ResponseWriter, r *http.Request) {
	var body domain.Meal
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.meals.Add(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"meal": m})
}

// handleMealReplace overwrites every editable field.
func (s *Server) handleMealReplace(w http.ResponseWriter, r *http.Request) {
	var body domain.Meal
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	patch := domain.MealPatch{
		Name:     &body.Name,
		Category: &body.Category,
		Date:     &body.Date,
		Favorite: &body.Favorite,
	}
	s.editMeal(w, r, patch)
}

func (s *Server) handleMealPatch(w http.ResponseWriter, r *http.Request) {
	var patch domain.MealPatch
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: nothing to update", domain.ErrInvalidMeal))
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.editMeal(w, r, patch)
}

func (s *Server) editMeal(w http.ResponseWriter, r *http.Request, patch domain.MealPatch) {
	m, err := s.meals.Edit(r.Context(), domain.ID(r.PathValue("id")), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meal": m})
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.meals.Remove(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}

func (s *Server) handleMealFavorite(w http.ResponseWriter, r *http.Request) {
	m, err := s.meals.ToggleFavorite(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meal": m})
}
