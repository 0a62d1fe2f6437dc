package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mealmate/internal/domain"
)

func weekdayMeals() []domain.Meal {
	return []domain.Meal{
		{ID: "1", Name: "Pasta Night", Category: domain.Dinner, Date: "Friday"},
		{ID: "2", Name: "Toast", Category: domain.Breakfast, Date: "Monday"},
	}
}

func datedMeals() []domain.Meal {
	return []domain.Meal{
		{ID: "a", Name: "Chili", Category: domain.Dinner, Date: "2026-10-23", Favorite: true},
		{ID: "b", Name: "Oatmeal", Category: domain.Breakfast, Date: "2026-10-19"},
		{ID: "c", Name: "Club Sandwich", Category: domain.Lunch, Date: "2026-10-21"},
		{ID: "d", Name: "Pancakes", Category: domain.Breakfast, Date: "2026-10-21", Favorite: true},
		{ID: "e", Name: "Leftover Chili", Category: domain.Lunch, Date: "2026-10-27"},
		{ID: "f", Name: "Soup", Category: domain.Dinner, Date: "2026-10-19"},
	}
}

func ids(meals []domain.Meal) []domain.ID {
	out := make([]domain.ID, len(meals))
	for i, m := range meals {
		out[i] = m.ID
	}
	return out
}

var testWeek = domain.WeekOf(time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC), time.Monday)

func TestBuildView_SearchIsCaseInsensitive(t *testing.T) {
	v := domain.BuildView(weekdayMeals(), domain.ViewQuery{Search: "pasta", Mode: domain.ModeWeekday}, testWeek)

	if diff := cmp.Diff([]domain.ID{"1"}, ids(v.Meals)); diff != "" {
		t.Errorf("filtered meals mismatch (-want +got):\n%s", diff)
	}
	if got := v.Group("Friday"); len(got) != 1 || got[0].Name != "Pasta Night" {
		t.Errorf("Friday group = %+v", got)
	}

	upper := domain.BuildView(weekdayMeals(), domain.ViewQuery{Search: "PASTA", Mode: domain.ModeWeekday}, testWeek)
	if diff := cmp.Diff(v, upper); diff != "" {
		t.Errorf("search should ignore case (-lower +upper):\n%s", diff)
	}
}

func TestBuildView_FavoritesOnlyWithoutFavorites(t *testing.T) {
	v := domain.BuildView(weekdayMeals(), domain.ViewQuery{FavoritesOnly: true, Mode: domain.ModeWeekday}, testWeek)

	if !v.Empty() {
		t.Fatalf("expected empty view, got %d meals", v.Total)
	}
	if len(v.Days) != 7 {
		t.Fatalf("expected 7 day groups, got %d", len(v.Days))
	}
	for _, d := range v.Days {
		if d.Meals == nil || len(d.Meals) != 0 {
			t.Errorf("day %s: expected empty non-nil group, got %v", d.Key, d.Meals)
		}
	}
}

func TestBuildView_SingleWednesdayMeal(t *testing.T) {
	meal := domain.Meal{ID: "w", Name: "Stir Fry", Category: domain.Dinner, Date: "Wednesday"}
	v := domain.BuildView([]domain.Meal{meal}, domain.ViewQuery{Mode: domain.ModeWeekday}, testWeek)

	for _, d := range v.Days {
		if d.Key == "Wednesday" {
			if diff := cmp.Diff([]domain.Meal{meal}, d.Meals); diff != "" {
				t.Errorf("Wednesday mismatch (-want +got):\n%s", diff)
			}
			continue
		}
		if len(d.Meals) != 0 {
			t.Errorf("day %s should be empty, got %v", d.Key, d.Meals)
		}
	}
}

func TestBuildView_EmptyCollection(t *testing.T) {
	v := domain.BuildView(nil, domain.ViewQuery{}, testWeek)
	if v.Total != 0 || len(v.Meals) != 0 {
		t.Fatalf("expected no meals, got %d", v.Total)
	}
	want := []string{"2026-10-19", "2026-10-20", "2026-10-21", "2026-10-22", "2026-10-23", "2026-10-24", "2026-10-25"}
	got := make([]string, len(v.Days))
	for i, d := range v.Days {
		got[i] = d.Key
		if len(d.Meals) != 0 {
			t.Errorf("day %s should be empty", d.Key)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("day keys mismatch (-want +got):\n%s", diff)
	}
	if v.Start != "2026-10-19" || v.End != "2026-10-25" {
		t.Errorf("bounds = %s..%s", v.Start, v.End)
	}
}

func TestBuildView_FiltersToWeek(t *testing.T) {
	v := domain.BuildView(datedMeals(), domain.ViewQuery{}, testWeek)

	if diff := cmp.Diff([]domain.ID{"a", "b", "c", "d", "f"}, ids(v.Meals)); diff != "" {
		t.Errorf("unsorted view should keep collection order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]domain.ID{"b", "f"}, ids(v.Group("2026-10-19"))); diff != "" {
		t.Errorf("Monday group mismatch (-want +got):\n%s", diff)
	}
	if got := v.Group("2026-10-27"); got != nil {
		t.Errorf("next week's meal leaked into view: %v", got)
	}
}

func TestBuildView_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort domain.SortKey
		want []domain.ID
	}{
		{"none keeps order", domain.SortNone, []domain.ID{"a", "b", "c", "d", "f"}},
		{"date is chronological and stable", domain.SortDate, []domain.ID{"b", "f", "c", "d", "a"}},
		{"category is lexicographic and stable", domain.SortCategory, []domain.ID{"b", "d", "a", "f", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := domain.BuildView(datedMeals(), domain.ViewQuery{Sort: tc.sort}, testWeek)
			if diff := cmp.Diff(tc.want, ids(v.Meals)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildView_CombinedFilters(t *testing.T) {
	q := domain.ViewQuery{Search: "chili", FavoritesOnly: true, Sort: domain.SortCategory}
	v := domain.BuildView(datedMeals(), q, testWeek)

	if diff := cmp.Diff([]domain.ID{"a"}, ids(v.Meals)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if len(v.Group("2026-10-23")) != 1 {
		t.Errorf("expected Friday to hold the favorite chili")
	}
}

func TestBuildView_NoSearchResults(t *testing.T) {
	v := domain.BuildView(datedMeals(), domain.ViewQuery{Search: "sushi"}, testWeek)
	if !v.Empty() {
		t.Fatalf("expected no results, got %v", ids(v.Meals))
	}
	for _, d := range v.Days {
		if len(d.Meals) != 0 {
			t.Errorf("day %s should be empty", d.Key)
		}
	}
}

func TestBuildView_NavigationDoesNotMutate(t *testing.T) {
	meals := datedMeals()
	before := append([]domain.Meal(nil), meals...)

	next := domain.BuildView(meals, domain.ViewQuery{Sort: domain.SortCategory}, testWeek.Next())
	if diff := cmp.Diff([]domain.ID{"e"}, ids(next.Meals)); diff != "" {
		t.Errorf("next week mismatch (-want +got):\n%s", diff)
	}
	back := domain.BuildView(meals, domain.ViewQuery{}, testWeek.Next().Prev())
	if diff := cmp.Diff(domain.BuildView(meals, domain.ViewQuery{}, testWeek), back); diff != "" {
		t.Errorf("forward then back should reproduce the view:\n%s", diff)
	}
	if diff := cmp.Diff(before, meals); diff != "" {
		t.Errorf("collection mutated:\n%s", diff)
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]domain.SortKey{
		"":         domain.SortNone,
		"none":     domain.SortNone,
		"Date":     domain.SortDate,
		"day":      domain.SortDate,
		"category": domain.SortCategory,
	} {
		got, err := domain.ParseSortKey(in)
		if err != nil || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := domain.ParseSortKey("calories"); err == nil {
		t.Error("expected error for unknown key")
	}
}
