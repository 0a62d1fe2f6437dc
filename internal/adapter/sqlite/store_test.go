package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mealmate/internal/domain"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meals.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_PersistAndReload(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	created, err := s.CreateMeal(ctx, domain.Meal{Name: "Oats", Category: domain.Breakfast, Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file missing: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload sqlite store: %v", err)
	}
	defer reloaded.Close() //nolint:errcheck

	meals, err := reloaded.ListMeals(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(meals) != 1 || meals[0].ID != created.ID || meals[0].Name != "Oats" {
		t.Fatalf("expected persisted meal, got %+v", meals)
	}
	if reloaded.Path() != path {
		t.Fatalf("expected path %s, got %s", path, reloaded.Path())
	}
}

func TestStore_EmptyListIsNonNil(t *testing.T) {
	s, _ := openTemp(t)
	meals, err := s.ListMeals(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meals == nil || len(meals) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", meals)
	}
}

func TestStore_ReplacePatchDelete(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	a, _ := s.CreateMeal(ctx, domain.Meal{Name: "Soup", Category: domain.Lunch, Date: "2026-10-20"})
	b, _ := s.CreateMeal(ctx, domain.Meal{Name: "Stew", Category: domain.Dinner, Date: "2026-10-21"})

	replaced, err := s.ReplaceMeal(ctx, a.ID, domain.Meal{Name: "Ramen", Category: domain.Dinner, Date: "2026-10-22"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != a.ID || replaced.Name != "Ramen" {
		t.Fatalf("unexpected replaced meal %+v", replaced)
	}

	fav := true
	patched, err := s.PatchMeal(ctx, b.ID, domain.MealPatch{Favorite: &fav})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !patched.Favorite || patched.Name != "Stew" {
		t.Fatalf("unexpected patched meal %+v", patched)
	}

	if err := s.DeleteMeal(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	meals, _ := s.ListMeals(ctx)
	if len(meals) != 1 || meals[0].ID != b.ID || !meals[0].Favorite {
		t.Fatalf("unexpected meals after delete: %+v", meals)
	}
	got, err := s.GetMeal(ctx, b.ID)
	if err != nil || got.Name != "Stew" {
		t.Fatalf("get = %+v, %v", got, err)
	}
}

func TestStore_NotFound(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()
	name := "x"

	if _, err := s.GetMeal(ctx, "missing"); !errors.Is(err, domain.ErrMealNotFound) {
		t.Errorf("get: expected ErrMealNotFound, got %v", err)
	}
	if _, err := s.ReplaceMeal(ctx, "missing", domain.Meal{Name: "x"}); !errors.Is(err, domain.ErrMealNotFound) {
		t.Errorf("replace: expected ErrMealNotFound, got %v", err)
	}
	if _, err := s.PatchMeal(ctx, "missing", domain.MealPatch{Name: &name}); !errors.Is(err, domain.ErrMealNotFound) {
		t.Errorf("patch: expected ErrMealNotFound, got %v", err)
	}
	if err := s.DeleteMeal(ctx, "missing"); !errors.Is(err, domain.ErrMealNotFound) {
		t.Errorf("delete: expected ErrMealNotFound, got %v", err)
	}
}

func TestStore_Users(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.User{Username: "sam", Password: "pw"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	found, err := s.FindUsers(ctx, domain.UserQuery{Username: "sam", Password: "pw"})
	if err != nil || len(found) != 1 || found[0].ID != u.ID {
		t.Fatalf("find = %+v, %v", found, err)
	}
	none, _ := s.FindUsers(ctx, domain.UserQuery{Username: "sam", Password: "nope"})
	if len(none) != 0 {
		t.Fatalf("expected no match, got %+v", none)
	}
	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ClosedDBFails(t *testing.T) {
	s, _ := openTemp(t)
	_ = s.Close()
	if _, err := s.CreateMeal(context.Background(), domain.Meal{Name: "x", Category: domain.Lunch}); err == nil {
		t.Fatal("expected error after closing db")
	}
}
