package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMealNotFound indicates that no meal exists with the requested id.
	ErrMealNotFound = errors.New("meal not found")
	// ErrInvalidMeal indicates that a meal or patch failed validation.
	ErrInvalidMeal = errors.New("invalid meal")
)

// ID is an opaque record identifier assigned by the record store. It decodes
// from either a JSON string or a JSON number.
type ID string

// UnmarshalJSON accepts both "7" and 7.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Category is the meal slot of the day.
type Category string

const (
	Breakfast Category = "Breakfast"
	Lunch     Category = "Lunch"
	Dinner    Category = "Dinner"
)

// Categories lists every valid category in display order.
var Categories = []Category{Breakfast, Lunch, Dinner}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: category must be one of Breakfast, Lunch, Dinner", ErrInvalidMeal)
}

// Meal is a single planned meal. Date holds either an ISO calendar date
// (YYYY-MM-DD) or a weekday name, depending on how the planner is used.
type Meal struct {
	ID       ID       `json:"id,omitempty"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Date     string   `json:"date"`
	Favorite bool     `json:"favorite"`
}

// UnmarshalJSON also accepts "day" in place of "date" for records written by
// weekday-based clients.
func (m *Meal) UnmarshalJSON(b []byte) error {
	type plain Meal
	var aux struct {
		plain
		Day string `json:"day"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = Meal(aux.plain)
	if m.Date == "" {
		m.Date = aux.Day
	}
	return nil
}

// Validate checks the fields required at creation time.
func (m Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMeal)
	}
	if _, err := ParseCategory(string(m.Category)); err != nil {
		return err
	}
	if m.Date != "" && !ValidDayLabel(m.Date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD or a weekday name", ErrInvalidMeal)
	}
	return nil
}

// Normalize trims the name and canonicalises the category spelling.
func (m Meal) Normalize() Meal {
	m.Name = strings.TrimSpace(m.Name)
	m.Date = strings.TrimSpace(m.Date)
	if c, err := ParseCategory(string(m.Category)); err == nil {
		m.Category = c
	}
	return m
}

// MealPatch is a partial update. Nil fields are left unchanged.
type MealPatch struct {
	Name     *string   `json:"name,omitempty"`
	Category *Category `json:"category,omitempty"`
	Date     *string   `json:"date,omitempty"`
	Favorite *bool     `json:"favorite,omitempty"`
}

// UnmarshalJSON accepts "day" as an alias of "date".
func (p *MealPatch) UnmarshalJSON(b []byte) error {
	type plain MealPatch
	var aux struct {
		plain
		Day *string `json:"day"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = MealPatch(aux.plain)
	if p.Date == nil {
		p.Date = aux.Day
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p MealPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Date == nil && p.Favorite == nil
}

// Validate checks every field present in the patch.
func (p MealPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidMeal)
	}
	if p.Category != nil {
		if _, err := ParseCategory(string(*p.Category)); err != nil {
			return err
		}
	}
	if p.Date != nil && *p.Date != "" && !ValidDayLabel(*p.Date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD or a weekday name", ErrInvalidMeal)
	}
	return nil
}

// Apply overlays the patch on m. The id is never changed.
func (p MealPatch) Apply(m Meal) Meal {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Favorite != nil {
		m.Favorite = *p.Favorite
	}
	return m.Normalize()
}

// MealRepository is the port for the record store holding meals.
type MealRepository interface {
	ListMeals(ctx context.Context) ([]Meal, error)
	GetMeal(ctx context.Context, id ID) (Meal, error)
	CreateMeal(ctx context.Context, m Meal) (Meal, error)
	ReplaceMeal(ctx context.Context, id ID, m Meal) (Meal, error)
	PatchMeal(ctx context.Context, id ID, p MealPatch) (Meal, error)
	DeleteMeal(ctx context.Context, id ID) error
}
