// Package sqlite persists planner records to a local SQLite file. Each
// collection is a single JSON array stored under a fixed key, mirroring how
// a browser keeps the planner in local storage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"mealmate/internal/domain"
)

const (
	mealsKey = "meals"
	usersKey = "users"
)

// Store implements the meal and user repositories on one SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure interfaces are met.
var _ domain.MealRepository = (*Store)(nil)
var _ domain.UserRepository = (*Store)(nil)

// Open creates the database file if needed and prepares the kv table.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "mealmate.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// load decodes the array under key; a missing key is an empty collection.
func load[T any](ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, key string) ([]T, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM kv WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// update reads the array under key, applies fn and writes the result back in
// one transaction. Nothing is written when fn fails.
func update[T any](ctx context.Context, s *Store, key string, fn func([]T) ([]T, error)) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	items, err := load[T](ctx, tx, key)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv(key, payload) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, data,
	); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func newID() domain.ID { return domain.ID(uuid.NewString()) }

// --- MealRepository ---

// ListMeals returns every stored meal in insertion order.
func (s *Store) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	return load[domain.Meal](ctx, s.db, mealsKey)
}

// GetMeal returns one meal.
func (s *Store) GetMeal(ctx context.Context, id domain.ID) (domain.Meal, error) {
	meals, err := s.ListMeals(ctx)
	if err != nil {
		return domain.Meal{}, err
	}
	for _, m := range meals {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
}

// CreateMeal appends m under a fresh uuid.
func (s *Store) CreateMeal(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	m.ID = newID()
	err := update(ctx, s, mealsKey, func(meals []domain.Meal) ([]domain.Meal, error) {
		return append(meals, m), nil
	})
	if err != nil {
		return domain.Meal{}, err
	}
	return m, nil
}

// ReplaceMeal overwrites the stored meal.
func (s *Store) ReplaceMeal(ctx context.Context, id domain.ID, m domain.Meal) (domain.Meal, error) {
	m.ID = id
	err := s.modifyMeal(ctx, id, func(domain.Meal) domain.Meal { return m })
	if err != nil {
		return domain.Meal{}, err
	}
	return m, nil
}

// PatchMeal overlays p on the stored meal.
func (s *Store) PatchMeal(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error) {
	var out domain.Meal
	err := s.modifyMeal(ctx, id, func(cur domain.Meal) domain.Meal {
		out = p.Apply(cur)
		return out
	})
	if err != nil {
		return domain.Meal{}, err
	}
	return out, nil
}

// DeleteMeal removes the stored meal.
func (s *Store) DeleteMeal(ctx context.Context, id domain.ID) error {
	return update(ctx, s, mealsKey, func(meals []domain.Meal) ([]domain.Meal, error) {
		for i := range meals {
			if meals[i].ID == id {
				return append(meals[:i], meals[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	})
}

func (s *Store) modifyMeal(ctx context.Context, id domain.ID, fn func(domain.Meal) domain.Meal) error {
	return update(ctx, s, mealsKey, func(meals []domain.Meal) ([]domain.Meal, error) {
		for i := range meals {
			if meals[i].ID == id {
				meals[i] = fn(meals[i])
				return meals, nil
			}
		}
		return nil, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
	})
}

// --- UserRepository ---

// FindUsers returns the users matching q.
func (s *Store) FindUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	users, err := load[domain.User](ctx, s.db, usersKey)
	if err != nil {
		return nil, err
	}
	out := []domain.User{}
	for _, u := range users {
		if q.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUser returns one user.
func (s *Store) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	users, err := load[domain.User](ctx, s.db, usersKey)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
}

// CreateUser appends u under a fresh uuid.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = newID()
	err := update(ctx, s, usersKey, func(users []domain.User) ([]domain.User, error) {
		return append(users, u), nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
