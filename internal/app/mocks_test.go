package app_test

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	"mealmate/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockMealRepo struct {
	listFn    func(ctx context.Context) ([]domain.Meal, error)
	getFn     func(ctx context.Context, id domain.ID) (domain.Meal, error)
	createFn  func(ctx context.Context, m domain.Meal) (domain.Meal, error)
	replaceFn func(ctx context.Context, id domain.ID, m domain.Meal) (domain.Meal, error)
	patchFn   func(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error)
	deleteFn  func(ctx context.Context, id domain.ID) error
}

func (m *mockMealRepo) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockMealRepo) GetMeal(ctx context.Context, id domain.ID) (domain.Meal, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Meal{}, domain.ErrMealNotFound
}

func (m *mockMealRepo) CreateMeal(ctx context.Context, meal domain.Meal) (domain.Meal, error) {
	if m.createFn != nil {
		return m.createFn(ctx, meal)
	}
	meal.ID = "1"
	return meal, nil
}

func (m *mockMealRepo) ReplaceMeal(ctx context.Context, id domain.ID, meal domain.Meal) (domain.Meal, error) {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, id, meal)
	}
	meal.ID = id
	return meal, nil
}

func (m *mockMealRepo) PatchMeal(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error) {
	if m.patchFn != nil {
		return m.patchFn(ctx, id, p)
	}
	return p.Apply(domain.Meal{ID: id}), nil
}

func (m *mockMealRepo) DeleteMeal(ctx context.Context, id domain.ID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockUserRepo struct {
	findFn   func(ctx context.Context, q domain.UserQuery) ([]domain.User, error)
	getFn    func(ctx context.Context, id domain.ID) (domain.User, error)
	createFn func(ctx context.Context, u domain.User) (domain.User, error)
}

func (m *mockUserRepo) FindUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = "1"
	return u, nil
}
