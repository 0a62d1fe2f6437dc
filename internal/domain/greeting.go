package domain

import "time"

// Greeting returns the welcome line for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good Morning!"
	case h < 18:
		return "Good Afternoon!"
	default:
		return "Good Evening!"
	}
}

// IsToday reports whether a meal date label refers to the calendar day of
// now. Weekday labels match the current weekday.
func IsToday(label string, now time.Time) bool {
	if wd, ok := ParseWeekday(label); ok {
		return wd == now.Weekday()
	}
	d, ok := ParseDate(label)
	return ok && d.Equal(civil(now))
}

// CategoryCount is the number of meals in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CountByCategory tallies meals per category, listing every known category
// in display order.
func CountByCategory(meals []Meal) []CategoryCount {
	out := make([]CategoryCount, len(Categories))
	for i, c := range Categories {
		out[i].Category = c
	}
	for _, m := range meals {
		for i := range out {
			if out[i].Category == m.Category {
				out[i].Count++
				break
			}
		}
	}
	return out
}
