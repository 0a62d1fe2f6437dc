package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the ordering of the filtered meals.
type SortKey string

const (
	SortNone     SortKey = ""
	SortDate     SortKey = "date"
	SortCategory SortKey = "category"
)

// ParseSortKey accepts "", "none", "date", "day" or "category".
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "date", "day":
		return SortDate, nil
	case "category":
		return SortCategory, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ViewQuery holds the user-selected filters of the weekly view.
type ViewQuery struct {
	Search        string
	FavoritesOnly bool
	Sort          SortKey
	Mode          Mode
}

// DayGroup is one day of the weekly view.
type DayGroup struct {
	Key   string `json:"key"`
	Date  string `json:"date"`
	Label string `json:"label"`
	Meals []Meal `json:"meals"`
}

// View is the derived display set for one week.
type View struct {
	Start string     `json:"start"`
	End   string     `json:"end"`
	Days  []DayGroup `json:"days"`
	Meals []Meal     `json:"meals"`
	Total int        `json:"total"`
}

// Empty reports whether no meal survived the filters.
func (v View) Empty() bool { return v.Total == 0 }

// Group returns the meals of the day with the given key, or nil.
func (v View) Group(key string) []Meal {
	for _, d := range v.Days {
		if d.Key == key {
			return d.Meals
		}
	}
	return nil
}

type placed struct {
	meal Meal
	slot int
}

// BuildView filters meals to the week, applies search and favorites
// filters, sorts stably and groups by day. Every day of the week is present
// in the result; days without meals hold an empty, non-nil slice.
func BuildView(meals []Meal, q ViewQuery, w Week) View {
	mode := q.Mode
	if mode == "" {
		mode = ModeDate
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))

	selected := make([]placed, 0, len(meals))
	for _, m := range meals {
		slot, ok := w.Slot(m.Date, mode)
		if !ok {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(m.Name), term) {
			continue
		}
		if q.FavoritesOnly && !m.Favorite {
			continue
		}
		selected = append(selected, placed{meal: m, slot: slot})
	}

	switch q.Sort {
	case SortDate:
		slices.SortStableFunc(selected, func(a, b placed) int { return cmp.Compare(a.slot, b.slot) })
	case SortCategory:
		slices.SortStableFunc(selected, func(a, b placed) int {
			return strings.Compare(string(a.meal.Category), string(b.meal.Category))
		})
	}

	keys := w.Keys(mode)
	dates := w.Dates()
	v := View{
		Start: w.Start().Format(DateLayout),
		End:   w.End().Format(DateLayout),
		Days:  make([]DayGroup, len(keys)),
		Meals: make([]Meal, 0, len(selected)),
		Total: len(selected),
	}
	for i, k := range keys {
		v.Days[i] = DayGroup{
			Key:   k,
			Date:  dates[i].Format(DateLayout),
			Label: dates[i].Format("Monday, Jan 2"),
			Meals: []Meal{},
		}
	}
	for _, p := range selected {
		v.Meals = append(v.Meals, p.meal)
		v.Days[p.slot].Meals = append(v.Days[p.slot].Meals, p.meal)
	}
	return v
}
