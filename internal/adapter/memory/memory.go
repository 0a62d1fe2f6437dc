// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"mealmate/internal/domain"
)

// DB implements an in-memory record store for meals and users.
type DB struct {
	mu    sync.Mutex
	meals []domain.Meal
	users []domain.User

	mealIDCounter int64
	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Seed creates a database holding meals, assigning ids where missing.
func Seed(meals ...domain.Meal) *DB {
	db := New()
	for _, m := range meals {
		if m.ID == "" {
			m.ID = db.nextMealID()
		}
		db.meals = append(db.meals, m)
	}
	return db
}

// Ensure interfaces are met.
var _ domain.MealRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)

// --- MealRepository ---

// ListMeals returns every meal in insertion order.
func (db *DB) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Meal, len(db.meals))
	copy(result, db.meals)
	return result, nil
}

// GetMeal returns the meal with the given id.
func (db *DB) GetMeal(ctx context.Context, id domain.ID) (domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.mealIndex(id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	return db.meals[i], nil
}

// CreateMeal stores m under a new id.
func (db *DB) CreateMeal(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	m.ID = db.nextMealID()
	db.meals = append(db.meals, m)
	return m, nil
}

// ReplaceMeal overwrites the meal with the given id.
func (db *DB) ReplaceMeal(ctx context.Context, id domain.ID, m domain.Meal) (domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.mealIndex(id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	m.ID = id
	db.meals[i] = m
	return m, nil
}

// PatchMeal overlays p on the meal with the given id.
func (db *DB) PatchMeal(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.mealIndex(id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	db.meals[i] = p.Apply(db.meals[i])
	return db.meals[i], nil
}

// DeleteMeal removes the meal with the given id.
func (db *DB) DeleteMeal(ctx context.Context, id domain.ID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.mealIndex(id)
	if i < 0 {
		return fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	}
	db.meals = append(db.meals[:i], db.meals[i+1:]...)
	return nil
}

// nextMealID skips counter values already taken by seeded records.
func (db *DB) nextMealID() domain.ID {
	for {
		db.mealIDCounter++
		id := domain.ID(strconv.FormatInt(db.mealIDCounter, 10))
		if db.mealIndex(id) < 0 {
			return id
		}
	}
}

func (db *DB) mealIndex(id domain.ID) int {
	for i := range db.meals {
		if db.meals[i].ID == id {
			return i
		}
	}
	return -1
}

// --- UserRepository ---

// FindUsers returns the users matching q.
func (db *DB) FindUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.User{}
	for _, u := range db.users {
		if q.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUser returns the user with the given id.
func (db *DB) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
}

// CreateUser stores u under a new id. Like the HTTP record store, it does not
// enforce username uniqueness.
func (db *DB) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	u.ID = domain.ID(strconv.FormatInt(db.userIDCounter, 10))
	db.users = append(db.users, u)
	return u, nil
}
