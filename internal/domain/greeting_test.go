package domain_test

import (
	"testing"
	"time"

	"mealmate/internal/domain"
)

func TestGreeting(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want string
	}{
		{"midnight", 0, "Good Morning!"},
		{"late morning", 11, "Good Morning!"},
		{"noon", 12, "Good Afternoon!"},
		{"late afternoon", 17, "Good Afternoon!"},
		{"evening", 18, "Good Evening!"},
		{"night", 23, "Good Evening!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			now := time.Date(2026, 10, 19, tc.hour, 30, 0, 0, time.UTC)
			if got := domain.Greeting(now); got != tc.want {
				t.Errorf("Greeting(%02d:30) = %q; want %q", tc.hour, got, tc.want)
			}
		})
	}
}

func TestIsToday(t *testing.T) {
	now := time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC) // Wednesday
	tests := []struct {
		label string
		want  bool
	}{
		{"2026-10-21", true},
		{"2026-10-22", false},
		{"Wednesday", true},
		{"wednesday", true},
		{"Thursday", false},
		{"soon", false},
	}
	for _, tc := range tests {
		if got := domain.IsToday(tc.label, now); got != tc.want {
			t.Errorf("IsToday(%q) = %v; want %v", tc.label, got, tc.want)
		}
	}
}

func TestCountByCategory(t *testing.T) {
	meals := []domain.Meal{
		{Name: "Oats", Category: domain.Breakfast},
		{Name: "Eggs", Category: domain.Breakfast},
		{Name: "Curry", Category: domain.Dinner},
	}
	got := domain.CountByCategory(meals)
	want := []domain.CategoryCount{
		{Category: domain.Breakfast, Count: 2},
		{Category: domain.Lunch, Count: 0},
		{Category: domain.Dinner, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d counts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("count[%d] = %+v; want %+v", i, got[i], want[i])
		}
	}
}
