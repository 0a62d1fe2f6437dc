package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"mealmate/internal/domain"
	"mealmate/internal/metrics"
)

// ErrPersistence indicates that the record store could not complete an
// operation after retries. The in-memory collection is left unchanged.
var ErrPersistence = errors.New("record store unavailable")

// RetryPolicy bounds the exponential backoff applied to record store calls.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns 4 tries starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 4, InitialInterval: 100 * time.Millisecond, MaxInterval: 2 * time.Second}
}

// MealStore owns the in-memory meal collection and keeps it in step with a
// MealRepository. Local state changes only after the repository confirms a
// mutation. Mutations are serialized: each holds the lock across its round
// trip.
type MealStore struct {
	repo  domain.MealRepository
	log   *zap.Logger
	retry RetryPolicy

	mu    sync.RWMutex
	meals []domain.Meal
}

// MealStoreOption configures a MealStore.
type MealStoreOption func(*MealStore)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) MealStoreOption {
	return func(s *MealStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRetry overrides the retry policy.
func WithRetry(p RetryPolicy) MealStoreOption {
	return func(s *MealStore) { s.retry = p }
}

// NewMealStore creates an empty store backed by repo. Call LoadAll to fill it.
func NewMealStore(repo domain.MealRepository, opts ...MealStoreOption) *MealStore {
	s := &MealStore{repo: repo, log: zap.NewNop(), retry: DefaultRetryPolicy()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// LoadAll replaces the collection with the repository's contents. On failure
// the collection is emptied and the error returned.
func (s *MealStore) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meals, err := call(ctx, s, "list", func() ([]domain.Meal, error) {
		return s.repo.ListMeals(ctx)
	})
	if err != nil {
		s.meals = nil
		metrics.MealsInMemory.Set(0)
		return err
	}
	s.meals = meals
	metrics.MealsInMemory.Set(float64(len(meals)))
	s.log.Info("meals loaded", zap.Int("count", len(meals)))
	return nil
}

// Meals returns a copy of the collection in insertion order.
func (s *MealStore) Meals() []domain.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Meal, len(s.meals))
	copy(out, s.meals)
	return out
}

// Get returns the meal with the given id.
func (s *MealStore) Get(id domain.ID) (domain.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.meals[i], nil
	}
	return domain.Meal{}, fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound)
}

// Add persists candidate and appends the stored record. Any id on the
// candidate is discarded; the repository assigns one.
func (s *MealStore) Add(ctx context.Context, candidate domain.Meal) (domain.Meal, error) {
	candidate = candidate.Normalize()
	candidate.ID = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := call(ctx, s, "create", func() (domain.Meal, error) {
		return s.repo.CreateMeal(ctx, candidate)
	})
	if err != nil {
		return domain.Meal{}, err
	}
	s.meals = append(s.meals, stored)
	metrics.MealsInMemory.Set(float64(len(s.meals)))
	return stored, nil
}

// Edit overlays patch on the meal with the given id and persists the full
// record.
func (s *MealStore) Edit(ctx context.Context, id domain.ID, patch domain.MealPatch) (domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("edit meal %s: %w", id, domain.ErrMealNotFound)
	}
	merged := patch.Apply(s.meals[i])
	merged.ID = id

	stored, err := call(ctx, s, "replace", func() (domain.Meal, error) {
		return s.repo.ReplaceMeal(ctx, id, merged)
	})
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			s.removeAt(i)
		}
		return domain.Meal{}, err
	}
	s.meals[i] = stored
	return stored, nil
}

// Remove deletes the meal with the given id. Removing an unknown id is a
// no-op reported as removed == false.
func (s *MealStore) Remove(ctx context.Context, id domain.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	_, err := call(ctx, s, "delete", func() (struct{}, error) {
		return struct{}{}, s.repo.DeleteMeal(ctx, id)
	})
	if err != nil && !errors.Is(err, domain.ErrMealNotFound) {
		return false, err
	}
	s.removeAt(i)
	return true, nil
}

// ToggleFavorite flips the favorite flag of the meal with the given id.
func (s *MealStore) ToggleFavorite(ctx context.Context, id domain.ID) (domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("toggle favorite %s: %w", id, domain.ErrMealNotFound)
	}
	fav := !s.meals[i].Favorite
	stored, err := call(ctx, s, "patch", func() (domain.Meal, error) {
		return s.repo.PatchMeal(ctx, id, domain.MealPatch{Favorite: &fav})
	})
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			s.removeAt(i)
		}
		return domain.Meal{}, err
	}
	s.meals[i] = stored
	return stored, nil
}

func (s *MealStore) indexOf(id domain.ID) int {
	for i := range s.meals {
		if s.meals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MealStore) removeAt(i int) {
	s.meals = append(s.meals[:i], s.meals[i+1:]...)
	metrics.MealsInMemory.Set(float64(len(s.meals)))
}

// call runs fn with bounded exponential backoff. Not-found and validation
// errors are returned as is; everything else is wrapped in ErrPersistence.
func call[T any](ctx context.Context, s *MealStore, op string, fn func() (T, error)) (T, error) {
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retry.InitialInterval
	b.MaxInterval = s.retry.MaxInterval

	tries := s.retry.MaxTries
	if tries == 0 {
		tries = 1
	}

	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := fn()
		if err != nil && permanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.StoreRetries.WithLabelValues(op).Inc()
			s.log.Warn("record store call failed, retrying",
				zap.String("op", op), zap.Duration("backoff", next), zap.Error(err))
		}),
	)
	metrics.ObserveStoreOp(op, err, time.Since(start))
	if err == nil {
		return v, nil
	}
	if errors.Is(err, domain.ErrMealNotFound) || errors.Is(err, domain.ErrInvalidMeal) {
		return v, err
	}
	s.log.Error("record store call failed", zap.String("op", op), zap.Error(err))
	return v, fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func permanent(err error) bool {
	return errors.Is(err, domain.ErrMealNotFound) ||
		errors.Is(err, domain.ErrInvalidMeal) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
