package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate/internal/domain"
)

func TestMealJSON_IDAcceptsNumberAndString(t *testing.T) {
	var byNumber, byString domain.Meal
	require.NoError(t, json.Unmarshal([]byte(`{"id":17,"name":"Soup","category":"Dinner","date":"2026-10-19"}`), &byNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"17","name":"Soup","category":"Dinner","date":"2026-10-19"}`), &byString))

	assert.Equal(t, domain.ID("17"), byNumber.ID)
	assert.Equal(t, byNumber, byString)
	assert.False(t, byNumber.Favorite)
}

func TestMealJSON_DayAlias(t *testing.T) {
	var m domain.Meal
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Toast","category":"Breakfast","day":"Monday","favorite":true}`), &m))
	assert.Equal(t, "Monday", m.Date)
	assert.True(t, m.Favorite)

	var p domain.MealPatch
	require.NoError(t, json.Unmarshal([]byte(`{"day":"Tuesday"}`), &p))
	require.NotNil(t, p.Date)
	assert.Equal(t, "Tuesday", *p.Date)
}

func TestMealValidate(t *testing.T) {
	tests := []struct {
		name    string
		meal    domain.Meal
		wantErr bool
	}{
		{"valid dated", domain.Meal{Name: "Soup", Category: domain.Dinner, Date: "2026-10-19"}, false},
		{"valid weekday", domain.Meal{Name: "Soup", Category: "lunch", Date: "friday"}, false},
		{"no date", domain.Meal{Name: "Soup", Category: domain.Dinner}, false},
		{"blank name", domain.Meal{Name: "  ", Category: domain.Dinner}, true},
		{"missing category", domain.Meal{Name: "Soup"}, true},
		{"unknown category", domain.Meal{Name: "Soup", Category: "Brunch"}, true},
		{"bad date", domain.Meal{Name: "Soup", Category: domain.Dinner, Date: "next week"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.meal.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidMeal)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMealPatch_ApplyOverlaysOnlyPresentFields(t *testing.T) {
	orig := domain.Meal{ID: "9", Name: "Soup", Category: domain.Dinner, Date: "2026-10-19", Favorite: true}
	name := "Tomato Soup"
	p := domain.MealPatch{Name: &name}

	got := p.Apply(orig)
	want := orig
	want.Name = "Tomato Soup"
	assert.Equal(t, want, got)
	assert.Equal(t, "Soup", orig.Name, "original must be untouched")
}

func TestMealPatch_Validate(t *testing.T) {
	empty := ""
	bad := domain.Category("Supper")
	assert.ErrorIs(t, domain.MealPatch{Name: &empty}.Validate(), domain.ErrInvalidMeal)
	assert.ErrorIs(t, domain.MealPatch{Category: &bad}.Validate(), domain.ErrInvalidMeal)
	assert.NoError(t, domain.MealPatch{}.Validate())
	assert.True(t, domain.MealPatch{}.IsEmpty())
}

func TestParseCategory(t *testing.T) {
	c, err := domain.ParseCategory(" dinner ")
	require.NoError(t, err)
	assert.Equal(t, domain.Dinner, c)
}

func TestUserQueryMatches(t *testing.T) {
	u := domain.User{Username: "sam", Password: "pw"}
	assert.True(t, domain.UserQuery{}.Matches(u))
	assert.True(t, domain.UserQuery{Username: "sam"}.Matches(u))
	assert.True(t, domain.UserQuery{Username: "sam", Password: "pw"}.Matches(u))
	assert.False(t, domain.UserQuery{Username: "sam", Password: "nope"}.Matches(u))
	assert.False(t, domain.UserQuery{Username: "alex"}.Matches(u))
}
