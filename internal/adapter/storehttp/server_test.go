package storehttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealmate/internal/adapter/memory"
	"mealmate/internal/domain"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_CreateAndList(t *testing.T) {
	h := New(memory.New(), nil).Handler()

	w := do(t, h, http.MethodPost, "/meals", `{"name":"Salad","category":"Lunch","date":"2026-10-20","favorite":false}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	var created domain.Meal
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	w = do(t, h, http.MethodGet, "/meals", "")
	var meals []domain.Meal
	if err := json.Unmarshal(w.Body.Bytes(), &meals); err != nil {
		t.Fatal(err)
	}
	if len(meals) != 1 || meals[0].Name != "Salad" {
		t.Fatalf("unexpected meals %+v", meals)
	}
}

func TestServer_EmptyListIsArray(t *testing.T) {
	h := New(memory.New(), nil).Handler()
	w := do(t, h, http.MethodGet, "/meals", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected [], got %q", w.Body.String())
	}
}

func TestServer_NotFound(t *testing.T) {
	h := New(memory.New(), nil).Handler()
	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/meals/9", ""},
		{http.MethodPut, "/meals/9", `{"name":"x","category":"Lunch"}`},
		{http.MethodPatch, "/meals/9", `{"favorite":true}`},
		{http.MethodDelete, "/meals/9", ""},
		{http.MethodGet, "/users/9", ""},
	} {
		if w := do(t, h, tc.method, tc.target, tc.body); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.target, w.Code)
		}
	}
}

func TestServer_UserQuery(t *testing.T) {
	db := memory.New()
	_, _ = db.CreateUser(context.Background(), domain.User{Username: "sam", Password: "pw"})
	_, _ = db.CreateUser(context.Background(), domain.User{Username: "alex", Password: "pw"})
	h := New(db, nil).Handler()

	w := do(t, h, http.MethodGet, "/users?username=sam&password=pw", "")
	var users []domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Username != "sam" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestServer_BadJSON(t *testing.T) {
	h := New(memory.New(), nil).Handler()
	if w := do(t, h, http.MethodPost, "/meals", `{`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

type failingRepo struct{ *memory.DB }

func (failingRepo) ListMeals(context.Context) ([]domain.Meal, error) {
	return nil, errors.New("disk on fire")
}

func TestServer_InternalError(t *testing.T) {
	h := New(failingRepo{memory.New()}, nil).Handler()
	if w := do(t, h, http.MethodGet, "/meals", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
